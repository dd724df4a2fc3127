// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-tours/internal/logger"
	"github.com/MKhiriev/go-tours/internal/query"
	"github.com/MKhiriev/go-tours/internal/store"
	"github.com/MKhiriev/go-tours/internal/validators"
)

// ResourceConfig parameterizes a generic [ResourceService].
type ResourceConfig[T any] struct {
	// Name is used in messages, e.g. "No tour found with that ID".
	Name string

	Validator validators.Validator

	// Defaults fills unset fields of a new record before validation.
	Defaults func(rec *T)

	// Steps run after validation and before every write.
	Steps []Step[T]

	// Populate loads related data into a record returned by Get.
	Populate func(ctx context.Context, rec *T) error

	// AfterSave and AfterDelete run once the write has succeeded.
	AfterSave   func(ctx context.Context, rec T) error
	AfterDelete func(ctx context.Context, rec T) error
}

type resourceService[T any] struct {
	repo store.ResourceRepository[T]
	cfg  ResourceConfig[T]

	logger *logger.Logger
}

// NewResourceService builds the CRUD service of one resource on top of repo.
func NewResourceService[T any](repo store.ResourceRepository[T], cfg ResourceConfig[T], logger *logger.Logger) ResourceService[T] {
	return &resourceService[T]{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
	}
}

func (s *resourceService[T]) Name() string {
	return s.cfg.Name
}

func (s *resourceService[T]) Schema() *store.Schema[T] {
	return s.repo.Schema()
}

func (s *resourceService[T]) List(ctx context.Context, spec query.Spec) ([]T, error) {
	records, err := s.repo.Find(ctx, spec)
	if err != nil {
		return nil, s.wrap(err)
	}
	return records, nil
}

func (s *resourceService[T]) Get(ctx context.Context, id int64) (T, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return rec, s.wrap(err)
	}

	if s.cfg.Populate != nil {
		if err := s.cfg.Populate(ctx, &rec); err != nil {
			var zero T
			return zero, fmt.Errorf("error populating %s: %w", s.cfg.Name, err)
		}
	}
	return rec, nil
}

func (s *resourceService[T]) Create(ctx context.Context, rec T) (T, error) {
	var zero T

	if s.cfg.Defaults != nil {
		s.cfg.Defaults(&rec)
	}
	if err := s.save(ctx, &rec, OpCreate); err != nil {
		return zero, err
	}

	created, err := s.repo.Create(ctx, rec)
	if err != nil {
		return zero, s.wrap(err)
	}

	s.afterSave(ctx, created)
	return created, nil
}

func (s *resourceService[T]) Update(ctx context.Context, id int64, patch []byte) (T, error) {
	var zero T

	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return zero, s.wrap(err)
	}

	if err := mergePatch(&rec, patch); err != nil {
		return zero, err
	}
	if err := s.save(ctx, &rec, OpUpdate); err != nil {
		return zero, err
	}

	updated, err := s.repo.Update(ctx, id, rec)
	if err != nil {
		return zero, s.wrap(err)
	}

	s.afterSave(ctx, updated)
	return updated, nil
}

func (s *resourceService[T]) Delete(ctx context.Context, id int64) error {
	if s.cfg.AfterDelete == nil {
		return s.wrap(s.repo.Delete(ctx, id))
	}

	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.wrap(err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.wrap(err)
	}

	if err := s.cfg.AfterDelete(ctx, rec); err != nil {
		logger.FromContext(ctx).Err(err).Str("resource", s.cfg.Name).Int64("id", id).Msg("after delete hook failed")
	}
	return nil
}

func (s *resourceService[T]) save(ctx context.Context, rec *T, op Operation) error {
	if s.cfg.Validator != nil {
		if err := s.cfg.Validator.Validate(ctx, *rec); err != nil {
			return err
		}
	}
	return runSteps(ctx, s.cfg.Steps, rec, op)
}

func (s *resourceService[T]) afterSave(ctx context.Context, rec T) {
	if s.cfg.AfterSave == nil {
		return
	}
	if err := s.cfg.AfterSave(ctx, rec); err != nil {
		logger.FromContext(ctx).Err(err).Str("resource", s.cfg.Name).Msg("after save hook failed")
	}
}

// wrap turns store.ErrNotFound into a *NotFoundError naming the resource.
func (s *resourceService[T]) wrap(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return &NotFoundError{Resource: s.cfg.Name}
	}
	return err
}

// mergePatch decodes a JSON object onto rec. Unknown fields are rejected.
func mergePatch[T any](rec *T, patch []byte) error {
	dec := json.NewDecoder(bytes.NewReader(patch))
	dec.DisallowUnknownFields()
	if err := dec.Decode(rec); err != nil {
		return validators.FieldError("body", "Invalid request body: "+err.Error())
	}
	return nil
}
