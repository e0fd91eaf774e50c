// Package presign issues time-limited GET and PUT URLs for objects in a
// single storage bucket.
//
// The package holds the request rules of the presign endpoint and the Signer
// capability. Provider-specific signing lives under storage/, the HTTP
// surface under api/.
//
// # Basic Usage
//
//	req, err := presign.ParseRequest(r.URL.Query())
//	if err != nil {
//	    // presign.ErrMissingKey or presign.ErrInvalidContentLength
//	}
//	pair, err := presign.Issue(ctx, signer, req)
//
// # Extension Parameters
//
// A GET URL may carry vendor query parameters that change how the provider
// serves it:
//
//   - no-wait: seconds to wait for an in-flight upload (1..10)
//   - x-bitiful-max-requests: maximum number of downloads
//   - x-bitiful-limit-rate: per-connection rate limit
//   - response-content-disposition=attachment: force a download
//
// MergeQuery splices them into an already signed URL without touching the
// signature fields.
package presign
