// Package api is the HTTP client for the media service backend.
//
// Every endpoint answers JSON, including on 4xx/5xx. Responses without a true
// "success" flag become *AppError; failures to reach the server or to decode
// its reply wrap ErrTransport.
package api
