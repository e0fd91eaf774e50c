package presign

import (
	"fmt"
	"net/url"
)

// MergeQuery sets params on the query string of rawURL and re-encodes it.
// Same-named keys are overwritten; every other key keeps its original values.
func MergeQuery(rawURL string, params map[string]string) (string, error) {
	if len(params) == 0 {
		return rawURL, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse signed URL: %w", err)
	}

	query := u.Query()
	for key, value := range params {
		query.Set(key, value)
	}
	u.RawQuery = query.Encode()

	return u.String(), nil
}
