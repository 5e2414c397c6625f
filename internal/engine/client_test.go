package engine

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/solatis/encql/internal/lockctx"
	"github.com/solatis/encql/internal/types"
)

func TestClient_Encrypt(t *testing.T) {
	var got EncryptRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/encrypt" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("Authorization = %q", auth)
		}
		if ws := r.Header.Get("X-Workspace-Id"); ws != "ws-1" {
			t.Errorf("X-Workspace-Id = %q", ws)
		}
		if r.Header.Get("X-Request-Id") == "" {
			t.Error("missing X-Request-Id")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatal(err)
		}
		json.NewEncoder(w).Encode(types.EncryptedPayload{
			Version:    2,
			Index:      types.PayloadIndex{Table: got.Table, Column: got.Column},
			Ciphertext: "ct-1",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "ws-1", "sk-test", nil)
	payload, err := c.Encrypt(context.Background(), EncryptRequest{
		Plaintext: "hello",
		Column:    "email",
		Table:     "users",
		IndexType: "unique",
		Lock:      &lockctx.Locked{SessionToken: "tok"},
	})
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	if payload.Ciphertext != "ct-1" {
		t.Errorf("Ciphertext = %q", payload.Ciphertext)
	}
	if got.IndexType != "unique" {
		t.Errorf("engine saw IndexType = %q", got.IndexType)
	}
	if got.Lock == nil || got.Lock.SessionToken != "tok" {
		t.Errorf("engine saw lock = %+v", got.Lock)
	}
}

func TestClient_CodePreservedVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{
			"code":    CodeInvalidPlaintext,
			"message": "wrap the value in an object",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "ws-1", "sk-test", nil)
	_, err := c.Encrypt(context.Background(), EncryptRequest{Plaintext: 42, Column: "attrs", Table: "users"})

	var coded *Error
	if !errors.As(err, &coded) {
		t.Fatalf("error = %v, expected *Error", err)
	}
	if coded.Code != CodeInvalidPlaintext {
		t.Errorf("Code = %q, expected %q", coded.Code, CodeInvalidPlaintext)
	}
	if coded.Message != "wrap the value in an object" {
		t.Errorf("Message = %q", coded.Message)
	}
}

func TestClient_UncodedErrorBecomesTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway timeout", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "ws-1", "sk-test", nil)
	_, err := c.Encrypt(context.Background(), EncryptRequest{Plaintext: "x", Column: "email", Table: "users"})

	var coded *Error
	if !errors.As(err, &coded) {
		t.Fatalf("error = %v, expected *Error", err)
	}
	if coded.Code != CodeTransport {
		t.Errorf("Code = %q, expected %q", coded.Code, CodeTransport)
	}
}

func TestClient_EncryptBulk_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]types.EncryptedPayload{{Version: 2}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "ws-1", "sk-test", nil)
	_, err := c.EncryptBulk(context.Background(), BulkEncryptRequest{
		Items: []BulkItem{
			{Plaintext: "a", Column: "email", Table: "users"},
			{Plaintext: "b", Column: "email", Table: "users"},
		},
	})
	var coded *Error
	if !errors.As(err, &coded) || coded.Code != CodeTransport {
		t.Fatalf("error = %v, expected a transport error", err)
	}
}

func TestClient_DecryptBulkFallible(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req BulkDecryptRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		out := make([]map[string]any, len(req.Items))
		for i, item := range req.Items {
			if i == 1 {
				out[i] = map[string]any{"id": string(item.ID), "error": "malformed ciphertext"}
				continue
			}
			out[i] = map[string]any{"id": string(item.ID), "data": "plain"}
		}
		json.NewEncoder(w).Encode(out)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "ws-1", "sk-test", nil)
	outcomes, err := c.DecryptBulkFallible(context.Background(), BulkDecryptRequest{
		Items: []CiphertextItem{
			{ID: "a", Ciphertext: &types.EncryptedPayload{Ciphertext: "x"}},
			{ID: "b", Ciphertext: &types.EncryptedPayload{Ciphertext: "y"}},
		},
	})
	if err != nil {
		t.Fatalf("DecryptBulkFallible() error = %v", err)
	}
	if outcomes[0].Err != nil || outcomes[0].Data != "plain" {
		t.Errorf("outcomes[0] = %+v, expected success", outcomes[0])
	}
	var decErr *DecryptionError
	if !errors.As(outcomes[1].Err, &decErr) {
		t.Errorf("outcomes[1].Err = %v, expected *DecryptionError", outcomes[1].Err)
	}
	if outcomes[1].Data != nil {
		t.Errorf("outcomes[1].Data = %v, expected nil on failure", outcomes[1].Data)
	}
}

func TestClient_ConnectionRefused(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "ws-1", "sk-test", nil)
	_, err := c.Encrypt(context.Background(), EncryptRequest{Plaintext: "x", Column: "email", Table: "users"})

	var coded *Error
	if !errors.As(err, &coded) || coded.Code != CodeTransport {
		t.Fatalf("error = %v, expected a transport error", err)
	}
}
