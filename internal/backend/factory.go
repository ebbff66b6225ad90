// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"net/http"

	"alphastocks/cli/internal/config"
)

// New creates a backend API implementation over client.
// client should carry the Interceptor as its transport and the session cookie jar.
func New(api config.APIConfig, client *http.Client) API {
	return newHTTP(api, client)
}
