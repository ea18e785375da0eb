package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/PauloHFS/inkpress/internal/policies"
	"github.com/PauloHFS/inkpress/internal/token"
)

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		caller   policies.Actor
		payload  string
		wantKind ErrorKind
		wantRole policies.Role
	}{
		{"defaults to reader", policies.Anonymous, `{"username":"newbie","password":"password123"}`, 0, policies.RoleReader},
		{"explicit reader", policies.Anonymous, `{"username":"newbie2","password":"password123","role":"reader"}`, 0, policies.RoleReader},
		{"anonymous cannot pick editor", policies.Anonymous, `{"username":"sneaky","password":"password123","role":"editor"}`, KindForbidden, 0},
		{"reader cannot pick admin", f.reader, `{"username":"sneaky2","password":"password123","role":"admin"}`, KindForbidden, 0},
		{"admin assigns editor", f.admin, `{"username":"hired","password":"password123","role":"editor"}`, 0, policies.RoleEditor},
		{"unknown role", policies.Anonymous, `{"username":"x","password":"password123","role":"owner"}`, KindValidation, 0},
		{"short password", policies.Anonymous, `{"username":"x","password":"short"}`, KindValidation, 0},
		{"bad username", policies.Anonymous, `{"username":"has space","password":"password123"}`, KindValidation, 0},
		{"duplicate username", policies.Anonymous, `{"username":"editor","password":"password123"}`, KindConflict, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.auth.Register(ctx, tt.caller, []byte(tt.payload))
			if kindOf(err) != tt.wantKind {
				t.Fatalf("expected %v, got %v", tt.wantKind, err)
			}
			if err != nil {
				return
			}
			if res.Status != OutcomeCreated {
				t.Errorf("expected created, got %v", res.Status)
			}
			if got := res.Data.(UserView).Role; got != tt.wantRole {
				t.Errorf("expected role %v, got %v", tt.wantRole, got)
			}
		})
	}
}

func TestLoginAndRefresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.auth.Register(ctx, policies.Anonymous, []byte(`{"username":"alice","password":"password123"}`)); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		payload  string
		wantKind ErrorKind
	}{
		{"wrong password", `{"username":"alice","password":"nope-nope"}`, KindUnauthenticated},
		{"unknown user", `{"username":"bob","password":"password123"}`, KindUnauthenticated},
		{"missing fields", `{}`, KindValidation},
		{"valid", `{"username":"alice","password":"password123"}`, 0},
	}
	var pair token.Pair
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.auth.Login(ctx, []byte(tt.payload))
			if kindOf(err) != tt.wantKind {
				t.Fatalf("expected %v, got %v", tt.wantKind, err)
			}
			if err == nil {
				pair = res.Data.(token.Pair)
			}
		})
	}
	if pair.Access == "" || pair.Refresh == "" {
		t.Fatal("expected a token pair")
	}

	res, err := f.auth.Refresh(ctx, []byte(fmt.Sprintf(`{"refresh":%q}`, pair.Refresh)))
	if err != nil {
		t.Fatal(err)
	}
	if res.Data.(map[string]string)["access"] == "" {
		t.Error("expected a new access token")
	}

	if _, err := f.auth.Refresh(ctx, []byte(fmt.Sprintf(`{"refresh":%q}`, pair.Access))); kindOf(err) != KindUnauthenticated {
		t.Errorf("access token must not refresh, got %v", err)
	}
}
