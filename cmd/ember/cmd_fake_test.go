package main

import (
	"context"

	"github.com/emberlab/ember/internal/config"
	"github.com/emberlab/ember/internal/oneshot"
)

// fakeStore implements config.Store for testing.
type fakeStore struct {
	cfg     *config.Config
	path    string
	loadErr error
	saveErr error
	saved   *config.Config
}

func (f *fakeStore) Load() (*config.Config, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.cfg == nil {
		return &config.Config{}, nil
	}
	cp := *f.cfg
	return &cp, nil
}

func (f *fakeStore) Save(cfg *config.Config) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	cp := *cfg
	f.saved = &cp
	return nil
}

func (f *fakeStore) Path() string { return f.path }

// fakeRunner implements inferenceRunner with scripted results.
type fakeRunner struct {
	results []*oneshot.Result
	errs    []error
	calls   []string // packaged content per call
}

func (f *fakeRunner) Run(_ context.Context, content string) (*oneshot.Result, error) {
	i := len(f.calls)
	f.calls = append(f.calls, content)
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return nil, err
	}
	if i < len(f.results) {
		return f.results[i], nil
	}
	return &oneshot.Result{Title: "answer", OK: true}, nil
}
