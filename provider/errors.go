package provider

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"

	"poassist/config"
	"poassist/model"
)

// User-facing messages shared by several adapters.
const (
	msgNetwork     = "Network error. Please check your internet connection and try again."
	msgRateLimit   = "Rate limit exceeded. Please try again later."
	msgNoResponse  = "No response generated"
	msgTimeout     = "The request timed out. Please try again."
	msgUnknownFail = "Unknown error occurred"
)

// isNetworkError reports transport-level failures: DNS, refused
// connections, resets.
func isNetworkError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "network") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host")
}

// contextMessage maps a cancelled or expired context to a message.
func contextMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return msgTimeout, true
	case errors.Is(err, context.Canceled):
		return "Request cancelled.", true
	}
	return "", false
}

// failure logs err and wraps msg in a Result.
func failure(component, msg string, err error) model.Result {
	if config.DebugLog != nil {
		if err != nil {
			config.DebugLog.Printf("[%s] %s: %v", component, msg, err)
		} else {
			config.DebugLog.Printf("[%s] %s", component, msg)
		}
	}
	if msg == "" {
		msg = msgUnknownFail
	}
	return model.Result{Error: msg}
}
