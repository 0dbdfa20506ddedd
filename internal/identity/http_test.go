package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPProvider_RoundTrip(t *testing.T) {
	iss, _ := newTestIssuer(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/identity/id", func(w http.ResponseWriter, r *http.Request) {
		id, _ := iss.GetID(r.Context())
		json.NewEncoder(w).Encode(IDResponse{IdentityID: id})
	})
	mux.HandleFunc("/identity/credentials", func(w http.ResponseWriter, r *http.Request) {
		var req CredentialsRequest
		json.NewDecoder(r.Body).Decode(&req)
		creds, err := iss.GetCredentialsForIdentity(r.Context(), req.IdentityID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(creds)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := NewHTTPProvider(srv.URL+"/", time.Second)
	ctx := context.Background()
	id, err := p.GetID(ctx)
	if err != nil {
		t.Fatalf("get id: %v", err)
	}
	creds, err := p.GetCredentialsForIdentity(ctx, id)
	if err != nil {
		t.Fatalf("get credentials: %v", err)
	}
	if sub, err := iss.Verify(creds.SessionToken); err != nil || sub != id {
		t.Fatalf("verify over http = %s, %v", sub, err)
	}

	if _, err := p.GetCredentialsForIdentity(ctx, "missing"); !errors.Is(err, ErrUnknownIdentity) {
		t.Fatalf("missing identity err = %v", err)
	}
}
