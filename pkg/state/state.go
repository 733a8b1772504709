package state

import "time"

// Receipt records one upload attempt.
type Receipt struct {
	// URL is the target the request was posted to
	URL string `json:"url"`

	// Boundary is the multipart boundary of the request
	Boundary string `json:"boundary"`

	// MinidumpID is the identifier used in attachment filenames
	MinidumpID string `json:"minidump_id"`

	// Files are the attachment paths in upload order
	Files []string `json:"files"`

	// Code is 0 on success and the transport error code otherwise
	Code int `json:"code"`

	// ResponseBytes is the size of the response body
	ResponseBytes int `json:"response_bytes"`

	// Error is the failure message, empty on success
	Error string `json:"error,omitempty"`

	// SentAt is the time the upload finished
	SentAt time.Time `json:"sent_at"`
}

// OK reports whether the upload was accepted.
func (r Receipt) OK() bool {
	return r.Code == 0 && r.Error == ""
}

// State is the persisted upload history.
type State struct {
	// Receipts are kept in upload order
	Receipts []Receipt `json:"receipts"`

	// LastSendAt is the timestamp of the last send attempt
	LastSendAt time.Time `json:"last_send_at"`

	// LastSuccessAt is the timestamp of the last accepted upload
	LastSuccessAt time.Time `json:"last_success_at"`
}

// IsEmpty returns true if no upload has been recorded.
func (s State) IsEmpty() bool {
	return len(s.Receipts) == 0
}

// Record appends a receipt and updates the timestamps.
func (s *State) Record(r Receipt) {
	if r.SentAt.IsZero() {
		r.SentAt = time.Now()
	}
	s.Receipts = append(s.Receipts, r)
	s.LastSendAt = r.SentAt
	if r.OK() {
		s.LastSuccessAt = r.SentAt
	}
}

// Uploaded reports whether an accepted receipt includes path.
func (s State) Uploaded(path string) bool {
	for _, r := range s.Receipts {
		if !r.OK() {
			continue
		}
		for _, f := range r.Files {
			if f == path {
				return true
			}
		}
	}
	return false
}

// Last returns the most recent receipt, or false if there is none.
func (s State) Last() (Receipt, bool) {
	if len(s.Receipts) == 0 {
		return Receipt{}, false
	}
	return s.Receipts[len(s.Receipts)-1], true
}
