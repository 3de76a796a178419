package types

import (
	"bytes"
	"encoding/json"
)

// CollectionSummary is the listing-level view of a collection.
// EndpointCount is -1 until the full tree has been fetched and counted.
type CollectionSummary struct {
	ID            string `json:"id"`
	UID           string `json:"uid,omitempty"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	EndpointCount int    `json:"-"`
}

// Collection is a full collection tree as returned by the remote API.
type Collection struct {
	Info  CollectionInfo `json:"info"`
	Items []Item         `json:"item"`
}

// CollectionInfo contains collection metadata
type CollectionInfo struct {
	PostmanID   string `json:"_postman_id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Schema      string `json:"schema,omitempty"`
}

// Item is one node of a collection tree. A node with a non-empty Items
// slice is a folder; a node with a Request is a request leaf. The remote
// schema allows a node to carry both, and a node with neither is an empty
// leaf.
type Item struct {
	ID        string     `json:"id,omitempty"`
	Name      string     `json:"name"`
	Request   *Request   `json:"request,omitempty"`
	Responses []Response `json:"response,omitempty"`
	Items     []Item     `json:"item,omitempty"`
}

// Request is one HTTP request definition
type Request struct {
	Method      string   `json:"method,omitempty"`
	Header      []Header `json:"header,omitempty"`
	Body        *Body    `json:"body,omitempty"`
	URL         URL      `json:"url"`
	Description string   `json:"description,omitempty"`
}

// URL is a request URL. The remote API serializes it either as a plain
// string or as a structured object, so it carries a custom unmarshaler.
type URL struct {
	Raw      string       `json:"raw"`
	Protocol string       `json:"protocol,omitempty"`
	Host     []string     `json:"host,omitempty"`
	Path     []string     `json:"path,omitempty"`
	Query    []QueryParam `json:"query,omitempty"`
}

// UnmarshalJSON accepts both the string and the object form of a URL
func (u *URL) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*u = URL{Raw: raw}
		return nil
	}

	// Alias avoids recursing into this unmarshaler
	type alias URL
	var obj alias
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*u = URL(obj)
	return nil
}

// QueryParam is one query string parameter
type QueryParam struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
	Disabled    bool   `json:"disabled,omitempty"`
}

// Header is one request or response header
type Header struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
	Disabled    bool   `json:"disabled,omitempty"`
}

// Body modes used by the remote schema
const (
	BodyModeRaw        = "raw"
	BodyModeFormData   = "formdata"
	BodyModeURLEncoded = "urlencoded"
)

// Body is a request body. Mode selects which of the payload fields applies.
type Body struct {
	Mode       string      `json:"mode,omitempty"`
	Raw        string      `json:"raw,omitempty"`
	FormData   []FormParam `json:"formdata,omitempty"`
	URLEncoded []FormParam `json:"urlencoded,omitempty"`
}

// FormParam is one form-data or url-encoded field
type FormParam struct {
	Key         string     `json:"key"`
	Value       string     `json:"value,omitempty"`
	Src         FileSource `json:"src,omitempty"`
	Type        string     `json:"type,omitempty"`
	Description string     `json:"description,omitempty"`
}

// FileSource is a form-data file reference. The remote schema serializes
// it as a string for a single file or an array for multiple; only the
// first entry is kept in the array case.
type FileSource string

// UnmarshalJSON accepts both the string and the array form of src
func (f *FileSource) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var srcs []string
		if err := json.Unmarshal(data, &srcs); err != nil {
			return err
		}
		if len(srcs) > 0 {
			*f = FileSource(srcs[0])
		}
		return nil
	}

	var src string
	if err := json.Unmarshal(data, &src); err != nil {
		return err
	}
	*f = FileSource(src)
	return nil
}

// Response is a saved example response stored alongside a request
type Response struct {
	ID     string   `json:"id,omitempty"`
	Name   string   `json:"name"`
	Status string   `json:"status,omitempty"`
	Code   int      `json:"code,omitempty"`
	Header []Header `json:"header,omitempty"`
	Body   string   `json:"body,omitempty"`
}

// ExportRecord is one row of the local export history
type ExportRecord struct {
	ID         int64  `json:"id"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
	EntryCount int    `json:"entryCount"`
}
