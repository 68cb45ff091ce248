// Package flash carries outcome notices across the redirect that follows a
// form submission.
//
// A submission can raise several notices before it settles, so notices are
// collected in a Queue and written as one batch cookie that the next page
// render consumes.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/ifc-cambodge/sreyka/internal/services/web/platform/requestmeta"
)

// CookieName is the cookie holding the pending notice batch.
const CookieName = "sreyka_flash"

// maxNotices bounds one batch so the cookie stays well under browser limits.
const maxNotices = 4

// Kind classifies a notice as an outcome the user should read as good or bad.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notice is one pending message. Key is a localization key; the outcome
// messages themselves double as keys so an untranslated key still reads well.
type Notice struct {
	Kind Kind   `json:"kind"`
	Key  string `json:"key"`
}

// NoticeSuccess creates a success notice for key.
func NoticeSuccess(key string) Notice {
	return Notice{Kind: KindSuccess, Key: key}
}

// NoticeError creates an error notice for key.
func NoticeError(key string) Notice {
	return Notice{Kind: KindError, Key: key}
}

// Queue collects notices raised while a submission settles. It is safe for
// use from the goroutine that delivers outcomes.
type Queue struct {
	mu      sync.Mutex
	notices []Notice
}

// Notify appends a notice. Invalid notices are dropped.
func (q *Queue) Notify(kind Kind, key string) {
	notice, ok := normalizeNotice(Notice{Kind: kind, Key: key})
	if !ok {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.notices = append(q.notices, notice)
}

// Notices returns a copy of the collected notices in raise order.
func (q *Queue) Notices() []Notice {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Notice(nil), q.notices...)
}

// Write stores notices for the next page render.
func Write(w http.ResponseWriter, r *http.Request, notices ...Notice) {
	WriteWithPolicy(w, r, requestmeta.SchemePolicy{}, notices...)
}

// WriteWithPolicy stores notices for the next page render, replacing any
// batch already pending. Only the most recent maxNotices valid notices are kept.
func WriteWithPolicy(w http.ResponseWriter, r *http.Request, policy requestmeta.SchemePolicy, notices ...Notice) {
	if w == nil {
		return
	}
	batch := normalizeBatch(notices)
	if len(batch) == 0 {
		return
	}
	payload, err := json.Marshal(batch)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		HttpOnly: true,
		Secure:   requestmeta.IsHTTPSWithPolicy(r, policy),
		SameSite: http.SameSiteLaxMode,
	})
}

// ReadAndClear returns the pending batch and expires its cookie.
func ReadAndClear(w http.ResponseWriter, r *http.Request) ([]Notice, bool) {
	if r == nil {
		return nil, false
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie == nil {
		return nil, false
	}
	if w != nil {
		Clear(w, r)
	}
	notices := decodeBatch(cookie.Value)
	return notices, len(notices) > 0
}

// Clear expires any pending batch.
func Clear(w http.ResponseWriter, r *http.Request) {
	ClearWithPolicy(w, r, requestmeta.SchemePolicy{})
}

// ClearWithPolicy expires any pending batch.
func ClearWithPolicy(w http.ResponseWriter, r *http.Request, policy requestmeta.SchemePolicy) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   requestmeta.IsHTTPSWithPolicy(r, policy),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func decodeBatch(raw string) []Notice {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}
	decoded, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var notices []Notice
	if err := json.Unmarshal(decoded, &notices); err != nil {
		return nil
	}
	return normalizeBatch(notices)
}

func normalizeBatch(notices []Notice) []Notice {
	batch := make([]Notice, 0, len(notices))
	for _, notice := range notices {
		if normalized, ok := normalizeNotice(notice); ok {
			batch = append(batch, normalized)
		}
	}
	if len(batch) > maxNotices {
		batch = batch[len(batch)-maxNotices:]
	}
	return batch
}

func normalizeNotice(notice Notice) (Notice, bool) {
	notice.Key = strings.TrimSpace(notice.Key)
	if notice.Key == "" {
		return Notice{}, false
	}
	notice.Kind = Kind(strings.ToLower(strings.TrimSpace(string(notice.Kind))))
	switch notice.Kind {
	case KindSuccess, KindError:
		return notice, true
	default:
		return Notice{}, false
	}
}
