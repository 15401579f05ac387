// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes used by the mix watch handler. These provide
// more specific reasons for closure than standard codes.
const (
	BadSubprotocolError   = 3000 // Client connected with an unsupported subprotocol.
	InvalidAuthTokenError = 3001 // Provided auth token was invalid or expired.
	InvalidMixIDError     = 3002 // Target mix ID in the WS URL does not exist or is invalid.
)
