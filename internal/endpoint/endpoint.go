// Package endpoint holds the registry of remote application entities the
// gateway may proxy to. Pure data access; no protocol logic lives here.
package endpoint

import dErrors "dicomgate/pkg/domain-errors"

// Endpoint maps a logical name to the connection parameters of one remote
// imaging system. All fields are required.
type Endpoint struct {
	Name          string `json:"name"`
	Host          string `json:"host"`
	Port          int    `json:"port"`
	LocalAETitle  string `json:"localAETitle"`
	RemoteAETitle string `json:"remoteAETitle"`
}

// Validate checks that every required field is present.
func (e Endpoint) Validate() error {
	switch {
	case e.Name == "":
		return dErrors.New(dErrors.CodeBadRequest, "endpoint name is required")
	case e.Host == "":
		return dErrors.New(dErrors.CodeBadRequest, "endpoint host is required")
	case e.Port <= 0 || e.Port > 65535:
		return dErrors.New(dErrors.CodeBadRequest, "endpoint port must be between 1 and 65535")
	case e.LocalAETitle == "":
		return dErrors.New(dErrors.CodeBadRequest, "local AE title is required")
	case e.RemoteAETitle == "":
		return dErrors.New(dErrors.CodeBadRequest, "remote AE title is required")
	}
	return nil
}
