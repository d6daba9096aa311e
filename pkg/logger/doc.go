// Package logger builds structured slog loggers for formkit services and tools.
//
// New creates a *slog.Logger from functional options: output format (text or
// json), minimum level, static attributes and context extractors. Extractors
// run on every record, so request-scoped values such as the form instance
// identifier show up without threading a logger through every call.
//
//	log := logger.New(
//	    logger.WithDevelopment("formkit"),
//	    logger.WithContextExtractors(logger.FormIDExtractor),
//	)
//
//	ctx = logger.WithFormID(ctx, id)
//	log.InfoContext(ctx, "field changed", logger.Form("signup"), logger.Field("email"))
//
// NewFromConfig does the same from a Config loaded with the config package.
//
// Error and Errors return an empty attribute for nil errors, so
//
//	log.Info("draft saved", logger.Error(err))
//
// needs no nil check.
package logger
