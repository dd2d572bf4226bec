package gateway

import dErrors "dicomgate/pkg/domain-errors"

// RetrieveRequest addresses metadata for a study, optionally narrowed to a
// series or single object.
type RetrieveRequest struct {
	StudyUID     string
	SeriesUID    string
	ObjectUID    string
	EndpointName string
}

// Validate enforces the retrieve parameter rules before any side effect. An
// object cannot be addressed without its containing series.
func (r RetrieveRequest) Validate() error {
	switch {
	case r.StudyUID == "":
		return dErrors.New(dErrors.CodeBadRequest, "studyUID is required")
	case r.EndpointName == "":
		return dErrors.New(dErrors.CodeBadRequest, "aeTitle is required")
	case r.ObjectUID != "" && r.SeriesUID == "":
		return dErrors.New(dErrors.CodeBadRequest, "objectUID requires seriesUID")
	}
	return nil
}

// QueryRequest matches studies by study UID and/or accession number.
type QueryRequest struct {
	StudyUID        string
	AccessionNumber string
	EndpointName    string
}

func (r QueryRequest) Validate() error {
	switch {
	case r.EndpointName == "":
		return dErrors.New(dErrors.CodeBadRequest, "aeTitle is required")
	case r.StudyUID == "" && r.AccessionNumber == "":
		return dErrors.New(dErrors.CodeBadRequest, "studyUID or accessionNumber is required")
	}
	return nil
}

// StoreRequest pushes one decoded object payload to a remote endpoint. The
// transport layer decodes the base64 payload before building this request, so
// a decode failure is rejected before any audit or remote attempt.
type StoreRequest struct {
	StudyUID     string
	SeriesUID    string
	ObjectUID    string
	EndpointName string
	Payload      []byte
}

func (r StoreRequest) Validate() error {
	switch {
	case r.StudyUID == "":
		return dErrors.New(dErrors.CodeBadRequest, "studyUID is required")
	case r.SeriesUID == "":
		return dErrors.New(dErrors.CodeBadRequest, "seriesUID is required")
	case r.ObjectUID == "":
		return dErrors.New(dErrors.CodeBadRequest, "objectUID is required")
	case r.EndpointName == "":
		return dErrors.New(dErrors.CodeBadRequest, "aeTitle is required")
	case len(r.Payload) == 0:
		return dErrors.New(dErrors.CodeBadRequest, "payload is required")
	}
	return nil
}
