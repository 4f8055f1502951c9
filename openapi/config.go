// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package openapi

import "fmt"

// Config holds the document-wide metadata a Manager is built from.
type Config struct {
	title       string
	version     string
	description string
	contact     *Contact
	license     *License
	servers     []Server
	tags        []Tag
	uiPath      string
}

// Option configures a Config.
type Option func(*Config)

func defaultConfig() *Config {
	return &Config{title: "fango API", version: "0.0.0", uiPath: "/docs"}
}

// WithTitle sets the document's title and version (both required by the
// OpenAPI spec).
func WithTitle(title, version string) Option {
	return func(c *Config) { c.title = title; c.version = version }
}

// WithDescription sets the document's description.
func WithDescription(description string) Option {
	return func(c *Config) { c.description = description }
}

// WithContact sets the API maintainer's contact information.
func WithContact(name, url, email string) Option {
	return func(c *Config) { c.contact = &Contact{Name: name, URL: url, Email: email} }
}

// WithLicense sets the license the API is published under.
func WithLicense(name, url string) Option {
	return func(c *Config) { c.license = &License{Name: name, URL: url} }
}

// WithServer adds a base URL the API can be reached at.
func WithServer(url, description string) Option {
	return func(c *Config) { c.servers = append(c.servers, Server{URL: url, Description: description}) }
}

// WithTag declares a named operation grouping for use in Swagger UI.
func WithTag(name, description string) Option {
	return func(c *Config) { c.tags = append(c.tags, Tag{Name: name, Description: description}) }
}

// WithUIPath sets the path the Swagger UI is served from (default
// "/docs"); the spec itself is served at path+"/openapi.yaml".
func WithUIPath(path string) Option {
	return func(c *Config) { c.uiPath = path }
}

// New builds a Config, returning an error if required fields are missing.
func New(opts ...Option) (*Config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.title == "" {
		return nil, fmt.Errorf("openapi: title must not be empty")
	}
	if cfg.version == "" {
		return nil, fmt.Errorf("openapi: version must not be empty")
	}
	return cfg, nil
}

// MustNew is like New but panics on error, for init-time wiring.
func MustNew(opts ...Option) *Config {
	cfg, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("openapi: %v", err))
	}
	return cfg
}
