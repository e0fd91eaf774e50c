package presign

import (
	"context"
	"net/http"
	"time"
)

const (
	// MaxContentLength is the largest upload a PUT URL may be signed for (1 GiB).
	MaxContentLength int64 = 1024 * 1024 * 1024

	// DefaultExpiration applies when the caller does not ask for a valid expiry.
	DefaultExpiration = time.Hour

	// MaxNoWait caps the simul-transfer wait window, in seconds.
	MaxNoWait int64 = 10
)

// Extension query keys understood by the storage provider.
const (
	ParamNoWait                     = "no-wait"
	ParamMaxRequests                = "x-bitiful-max-requests"
	ParamLimitRate                  = "x-bitiful-limit-rate"
	ParamResponseContentDisposition = "response-content-disposition"
)

// PresignRequest is the validated form of a /presigned-url query.
// Zero values of the optional numeric fields mean "absent".
type PresignRequest struct {
	Key           string
	ContentLength int64
	Expires       time.Duration
	ForceDownload bool
	NoWait        int64
	MaxRequests   int64
	LimitRate     int64
}

// SignedPair is the response payload of the presign endpoint.
type SignedPair struct {
	GetURL string `json:"get-url"`
	PutURL string `json:"put-url"`
}

// SignRequest describes one URL to be signed.
type SignRequest struct {
	Method  string // http.MethodGet or http.MethodPut
	Key     string
	Expires time.Duration

	// ContentLength pins the exact body size of a PUT. Zero leaves it unconstrained.
	ContentLength int64

	// Params are vendor extension query parameters for a GET.
	Params map[string]string
}

// Signer produces presigned URLs for objects in a single bucket.
// Implementations must be safe for concurrent use.
type Signer interface {
	Sign(ctx context.Context, req SignRequest) (string, error)
}

// GetRequest returns the signing request for the download URL.
func (r PresignRequest) GetRequest() SignRequest {
	return SignRequest{
		Method:  http.MethodGet,
		Key:     r.Key,
		Expires: r.Expires,
		Params:  r.ExtensionParams(),
	}
}

// PutRequest returns the signing request for the upload URL.
func (r PresignRequest) PutRequest() SignRequest {
	return SignRequest{
		Method:        http.MethodPut,
		Key:           r.Key,
		Expires:       r.Expires,
		ContentLength: r.ContentLength,
	}
}

// Issue signs the GET and PUT URLs for r.
func Issue(ctx context.Context, signer Signer, r PresignRequest) (SignedPair, error) {
	getURL, err := signer.Sign(ctx, r.GetRequest())
	if err != nil {
		return SignedPair{}, err
	}

	putURL, err := signer.Sign(ctx, r.PutRequest())
	if err != nil {
		return SignedPair{}, err
	}

	return SignedPair{GetURL: getURL, PutURL: putURL}, nil
}
