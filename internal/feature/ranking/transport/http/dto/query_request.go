// Package dto defines data transfer objects for the ranking feature's HTTP transport layer.
package dto

// QueryReq represents the request body for the /query endpoint.
// Binding the field as string makes gin reject non-string JSON values
// (e.g. {"query": 123}) before any upstream call is made.
type QueryReq struct {
	Query string `json:"query" binding:"required"`
}
