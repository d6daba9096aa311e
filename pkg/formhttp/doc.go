// Package formhttp serves schema-defined forms over HTTP.
//
// Each visit to /{form} starts a draft that lives in a formstore.Store. The
// browser then reports field events and submissions against the draft:
//
//	GET  /{form}                          start a draft, render the page
//	GET  /{form}/{id}                     render the draft
//	POST /{form}/{id}/fields/{field}/change
//	POST /{form}/{id}/fields/{field}/blur
//	POST /{form}/{id}/submit              422 when blocked, 502 when the submitter fails
//	POST /{form}/{id}/reset
//
// Responses follow the client: DataStar requests get element patches over
// server-sent events, htmx requests get the changed fragment, plain requests
// get the full page and clients that accept only application/json get the
// draft's state.
package formhttp
