package i18n

import "errors"

var (
	ErrYAMLParsingCancelled = errors.New("yaml parsing cancelled")
	ErrFailedToParseYAML    = errors.New("failed to parse YAML content")
	ErrInvalidCatalog       = errors.New("invalid translation catalog")
	ErrFailedToReadFile     = errors.New("failed to read translation file")
	ErrFailedToReadDir      = errors.New("failed to read translation directory")
	ErrLoadingCancelled     = errors.New("loading translations cancelled")
)
