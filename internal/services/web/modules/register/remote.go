package register

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/ifc-cambodge/sreyka/internal/platform/timeouts"
	"github.com/ifc-cambodge/sreyka/internal/services/auth/registration"
	"github.com/ifc-cambodge/sreyka/internal/services/web/routepath"
)

// maxResultBytes bounds the registration reply body.
const maxResultBytes = 4 << 10

// RemoteAction returns an Action that registers through the HTTP endpoint
// served at baseURL. Any transport failure or unreadable reply is reported
// as StatusFailed.
//
// Give client a cookie jar to keep the session established on success.
func RemoteAction(baseURL string, client *http.Client) registration.Action {
	endpoint := strings.TrimRight(strings.TrimSpace(baseURL), "/") + routepath.APIRegister
	if client == nil {
		client = http.DefaultClient
	}
	return func(ctx context.Context, form registration.Form) registration.Status {
		status, err := postRegistration(ctx, client, endpoint, form)
		if err != nil {
			log.Printf("register: remote action: %v", err)
			return registration.StatusFailed
		}
		return status
	}
}

func postRegistration(ctx context.Context, client *http.Client, endpoint string, form registration.Form) (registration.Status, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.RemoteAction)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Values().Encode()))
	if err != nil {
		return registration.StatusFailed, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return registration.StatusFailed, fmt.Errorf("post %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResultBytes))
	if err != nil {
		return registration.StatusFailed, fmt.Errorf("read reply: %w", err)
	}
	result, err := registration.DecodeResult(body)
	if err != nil {
		return registration.StatusFailed, fmt.Errorf("status %d: %w", resp.StatusCode, err)
	}
	return result.Status, nil
}
