package models

import "fmt"

// RemoteHost describes one peer this node can sync with. The peer token is
// stored encrypted and only decrypted inside an open session.
type RemoteHost struct {
	ID       int64
	Name     string
	Host     string
	Port     int
	Protocol string

	// EncryptedToken is the AES-GCM blob produced by the token cipher;
	// nil or empty means no credentials are stored for this peer.
	EncryptedToken []byte
}

// BaseURL renders the peer's API base. Default ports for the scheme are
// omitted.
func (h RemoteHost) BaseURL() string {
	protocol := h.Protocol
	if protocol == "" {
		protocol = "https"
	}

	switch {
	case h.Port == 0,
		protocol == "https" && h.Port == 443,
		protocol == "http" && h.Port == 80:
		return fmt.Sprintf("%s://%s", protocol, h.Host)
	default:
		return fmt.Sprintf("%s://%s:%d", protocol, h.Host, h.Port)
	}
}

// HasToken reports whether credentials are stored for this peer.
func (h RemoteHost) HasToken() bool {
	return len(h.EncryptedToken) > 0
}
