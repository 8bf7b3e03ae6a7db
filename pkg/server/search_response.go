package server

import "github.com/raosahab/catalog-query/pkg/types"

type SearchResponse struct {
	Products []types.Product  `json:"products"`
	Total    int              `json:"total"`
	Query    types.QueryState `json:"query"`
	Loading  bool             `json:"loading"`
	Error    string           `json:"error,omitempty"`
}

type QueryResponse struct {
	Query types.QueryState `json:"query"`
	Url   string           `json:"url"`
}

type ReloadResponse struct {
	Ok    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
