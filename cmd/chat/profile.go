package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

type Profile struct {
	BaseURL  string        `yaml:"base_url"`
	Token    string        `yaml:"token"`
	UserID   string        `yaml:"user_id"`
	FullName string        `yaml:"full_name"`
	Timeout  time.Duration `yaml:"timeout"`
}

// LoadProfile reads a YAML profile. A missing file yields an empty profile so flags and
// environment variables alone can configure the client.
func LoadProfile(path string) (Profile, error) {
	var p Profile
	if strings.TrimSpace(path) == "" {
		return p, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return p, nil
		}
		return p, fmt.Errorf("open profile: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return p, fmt.Errorf("decode profile %s: %w", path, err)
	}
	return p, nil
}

// Override replaces fields with non-empty values.
func (p Profile) Override(baseURL, token, userID string) Profile {
	if v := strings.TrimSpace(baseURL); v != "" {
		p.BaseURL = v
	}
	if v := strings.TrimSpace(token); v != "" {
		p.Token = v
	}
	if v := strings.TrimSpace(userID); v != "" {
		p.UserID = v
	}
	return p
}

func (p Profile) Validate() (uuid.UUID, error) {
	var missing []string
	if p.BaseURL == "" {
		missing = append(missing, "base_url")
	}
	if p.Token == "" {
		missing = append(missing, "token")
	}
	if p.UserID == "" {
		missing = append(missing, "user_id")
	}
	if len(missing) > 0 {
		return uuid.Nil, fmt.Errorf("missing profile fields: %s", strings.Join(missing, ", "))
	}

	id, err := uuid.Parse(p.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user_id: %w", err)
	}
	return id, nil
}
