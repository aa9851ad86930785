package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGet(t *testing.T) {
	gokeyring.MockInit()

	tests := []struct {
		key   Key
		value string
	}{
		{ConnectionString, "postgres://testuser@localhost:5432/testdb?sslmode=disable"},
		{APIToken, "eyJhbGciOiJIUzI1NiJ9.payload.sig"},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			if err := Set(tt.key, tt.value); err != nil {
				t.Fatalf("Set() failed: %v", err)
			}
			got, err := Get(tt.key)
			if err != nil {
				t.Fatalf("Get() failed: %v", err)
			}
			if got != tt.value {
				t.Errorf("Get() = %q, want %q", got, tt.value)
			}
		})
	}
}

func TestConnectionStringHelpers(t *testing.T) {
	gokeyring.MockInit()

	connStr := "postgres://testuser@localhost:5432/testdb"
	if err := SetConnectionString(connStr); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}
	got, err := GetConnectionString()
	if err != nil || got != connStr {
		t.Errorf("GetConnectionString() = %q, %v", got, err)
	}
}

func TestSetEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := Set(APIToken, ""); err == nil {
		t.Error("Set() with empty value should return an error")
	}
}

func TestGetNotFound(t *testing.T) {
	gokeyring.MockInit()
	_ = Delete(ConnectionString)

	if _, err := Get(ConnectionString); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want %v", err, ErrNotFound)
	}
}

func TestDelete(t *testing.T) {
	gokeyring.MockInit()

	if err := Set(APIToken, "token"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := Delete(APIToken); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := Get(APIToken); !errors.Is(err, ErrNotFound) {
		t.Errorf("after Delete(), Get() error = %v, want %v", err, ErrNotFound)
	}
	if err := Delete(APIToken); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want %v", err, ErrNotFound)
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		name    string
		want    Key
		wantErr bool
	}{
		{"db", ConnectionString, false},
		{"DATABASE", ConnectionString, false},
		{"database-connection", ConnectionString, false},
		{"token", APIToken, false},
		{" api-token ", APIToken, false},
		{"password", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKey(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()

	if !IsAvailable() {
		t.Error("IsAvailable() should be true with the mock keyring")
	}
}
