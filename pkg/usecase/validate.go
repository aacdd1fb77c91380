package usecase

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/interfaces"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

// Record sources scanned by ValidateDB
const (
	SourceOpportunity = "opportunity"
	SourceResponse    = "response"
)

// ValidationIssue represents a single validation issue found during DB consistency check
type ValidationIssue struct {
	CategoryID types.CategoryID
	Source     string // SourceOpportunity or SourceResponse
	RecordID   string // opportunity ID or user ID
	Key        string
	Message    string
	Actual     string
}

// ValidationResult holds the results of DB validation
type ValidationResult struct {
	Issues  []ValidationIssue
	Scanned int
}

// HasIssues returns true if there are any validation issues
func (r *ValidationResult) HasIssues() bool {
	return len(r.Issues) > 0
}

// AddIssue adds a validation issue to the result
func (r *ValidationResult) AddIssue(issue ValidationIssue) {
	r.Issues = append(r.Issues, issue)
}

// scanConcurrency bounds the number of categories scanned at once
const scanConcurrency = 4

// ValidateDB scans stored opportunity configs and category responses for
// keys that no longer match a field and for choice values that are no longer
// among the field's options. It does NOT modify any data.
func (uc *UseCases) ValidateDB(ctx context.Context) (*ValidationResult, error) {
	categories, err := uc.repo.Category().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list categories")
	}

	result := &ValidationResult{}
	var mu sync.Mutex

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(scanConcurrency)
	for _, c := range categories {
		categoryID := c.ID
		eg.Go(func() error {
			issues, scanned, err := uc.scanCategory(egCtx, categoryID)
			if err != nil {
				return err
			}
			mu.Lock()
			result.Issues = append(result.Issues, issues...)
			result.Scanned += scanned
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(result.Issues, func(i, j int) bool {
		a, b := result.Issues[i], result.Issues[j]
		if a.CategoryID != b.CategoryID {
			return a.CategoryID < b.CategoryID
		}
		if a.RecordID != b.RecordID {
			return a.RecordID < b.RecordID
		}
		return a.Key < b.Key
	})
	return result, nil
}

func (uc *UseCases) scanCategory(ctx context.Context, categoryID types.CategoryID) ([]ValidationIssue, int, error) {
	fields, err := uc.repo.CategoryField().List(ctx, categoryID)
	if err != nil {
		return nil, 0, goerr.Wrap(err, "failed to list fields", goerr.V(CategoryIDKey, categoryID))
	}
	opportunities, err := uc.repo.Opportunity().List(ctx, interfaces.WithCategory(categoryID))
	if err != nil {
		return nil, 0, goerr.Wrap(err, "failed to list opportunities", goerr.V(CategoryIDKey, categoryID))
	}
	responses, err := uc.repo.CategoryResponse().List(ctx, categoryID)
	if err != nil {
		return nil, 0, goerr.Wrap(err, "failed to list responses", goerr.V(CategoryIDKey, categoryID))
	}

	byName := make(map[string]*model.CategoryField, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}

	var issues []ValidationIssue
	for _, o := range opportunities {
		issues = append(issues, checkStoredRecord(byName, categoryID, SourceOpportunity, o.ID.String(), o.Config)...)
	}
	for _, r := range responses {
		issues = append(issues, checkStoredRecord(byName, categoryID, SourceResponse, r.UserID.String(), r.Config)...)
	}
	return issues, len(opportunities) + len(responses), nil
}

func checkStoredRecord(byName map[string]*model.CategoryField, categoryID types.CategoryID, source, recordID string, record model.FieldValueRecord) []ValidationIssue {
	var issues []ValidationIssue
	for _, key := range record.Keys() {
		value := record[key]
		field, ok := byName[key]
		if !ok {
			issues = append(issues, ValidationIssue{
				CategoryID: categoryID,
				Source:     source,
				RecordID:   recordID,
				Key:        key,
				Message:    "orphaned key (no matching field)",
				Actual:     fmt.Sprint(value),
			})
			continue
		}

		options := field.Options()
		if options == nil || model.IsEmptyValue(field, value) {
			continue
		}
		for _, v := range choiceValues(value) {
			if !slices.Contains(options, v) {
				issues = append(issues, ValidationIssue{
					CategoryID: categoryID,
					Source:     source,
					RecordID:   recordID,
					Key:        key,
					Message:    "value is not among the field's options",
					Actual:     v,
				})
			}
		}
	}
	return issues
}

func choiceValues(value any) []string {
	if s, ok := value.(string); ok {
		return []string{s}
	}
	if list, ok := model.ToStrings(value); ok {
		return list
	}
	return []string{fmt.Sprint(value)}
}
