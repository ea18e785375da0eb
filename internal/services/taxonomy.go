package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/PauloHFS/inkpress/internal/db"
	"github.com/PauloHFS/inkpress/internal/policies"
)

type CategoryPayload struct {
	Name        *string `json:"name" validate:"omitnil,min=1,max=100"`
	Description *string `json:"description" validate:"omitnil,max=1000"`
}

type TagPayload struct {
	Name *string `json:"name" validate:"omitnil,min=1,max=50"`
}

func (s *ContentService) handleCategory(ctx context.Context, req Request) (Result, error) {
	const kind = policies.KindCategory

	switch req.Action {
	case policies.ActionList:
		if err := authorize(ctx, req.Actor, req.Action, kind, nil); err != nil {
			return Result{}, err
		}
		items, err := s.pool.Queries().ListCategories(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("failed to list categories: %w", err)
		}
		return Result{Status: OutcomeOK, Data: items}, nil

	case policies.ActionRetrieve:
		c, err := s.pool.Queries().GetCategory(ctx, req.ID)
		if err != nil {
			return Result{}, storeError(kind, err)
		}
		if err := authorize(ctx, req.Actor, req.Action, kind, &policies.Target{}); err != nil {
			return Result{}, err
		}
		return Result{Status: OutcomeOK, Data: c}, nil

	case policies.ActionCreate:
		if err := authorize(ctx, req.Actor, req.Action, kind, nil); err != nil {
			return Result{}, err
		}
		var p CategoryPayload
		if err := decode(req.Payload, &p); err != nil {
			return Result{}, err
		}
		if err := required(map[string]bool{"name": p.Name != nil}); err != nil {
			return Result{}, err
		}
		name, err := cleanName(*p.Name)
		if err != nil {
			return Result{}, err
		}
		params := db.CreateCategoryParams{Name: name}
		if p.Description != nil {
			params.Description = *p.Description
		}
		var c db.Category
		err = s.pool.WithTx(ctx, func(q *db.Queries) error {
			var err error
			c, err = q.CreateCategory(ctx, params)
			return storeError(kind, err)
		})
		if err != nil {
			return Result{}, err
		}
		return Result{Status: OutcomeCreated, Message: "category created", Data: c}, nil

	case policies.ActionUpdate, policies.ActionPartialUpdate:
		var c db.Category
		err := s.pool.WithTx(ctx, func(q *db.Queries) error {
			var err error
			if c, err = q.GetCategory(ctx, req.ID); err != nil {
				return storeError(kind, err)
			}
			if err := authorize(ctx, req.Actor, req.Action, kind, &policies.Target{}); err != nil {
				return err
			}
			var p CategoryPayload
			if err := decode(req.Payload, &p); err != nil {
				return err
			}
			if req.Action == policies.ActionUpdate {
				if err := required(map[string]bool{"name": p.Name != nil}); err != nil {
					return err
				}
			}
			if p.Name != nil {
				if c.Name, err = cleanName(*p.Name); err != nil {
					return err
				}
			}
			if p.Description != nil {
				c.Description = *p.Description
			}
			return storeError(kind, q.UpdateCategory(ctx, db.UpdateCategoryParams{
				ID:          c.ID,
				Name:        c.Name,
				Description: c.Description,
			}))
		})
		if err != nil {
			return Result{}, err
		}
		return Result{Status: OutcomeOK, Message: "category updated", Data: c}, nil

	case policies.ActionDestroy:
		err := s.pool.WithTx(ctx, func(q *db.Queries) error {
			if _, err := q.GetCategory(ctx, req.ID); err != nil {
				return storeError(kind, err)
			}
			if err := authorize(ctx, req.Actor, req.Action, kind, &policies.Target{}); err != nil {
				return err
			}
			return storeError(kind, q.DeleteCategory(ctx, req.ID))
		})
		if err != nil {
			return Result{}, err
		}
		return Result{Status: OutcomeDeleted, Message: "category deleted"}, nil
	}
	return Result{}, fmt.Errorf("unsupported action %s on %s", req.Action, kind)
}

func (s *ContentService) handleTag(ctx context.Context, req Request) (Result, error) {
	const kind = policies.KindTag

	switch req.Action {
	case policies.ActionList:
		if err := authorize(ctx, req.Actor, req.Action, kind, nil); err != nil {
			return Result{}, err
		}
		items, err := s.pool.Queries().ListTags(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("failed to list tags: %w", err)
		}
		return Result{Status: OutcomeOK, Data: items}, nil

	case policies.ActionRetrieve:
		t, err := s.pool.Queries().GetTag(ctx, req.ID)
		if err != nil {
			return Result{}, storeError(kind, err)
		}
		if err := authorize(ctx, req.Actor, req.Action, kind, &policies.Target{}); err != nil {
			return Result{}, err
		}
		return Result{Status: OutcomeOK, Data: t}, nil

	case policies.ActionCreate:
		if err := authorize(ctx, req.Actor, req.Action, kind, nil); err != nil {
			return Result{}, err
		}
		var p TagPayload
		if err := decode(req.Payload, &p); err != nil {
			return Result{}, err
		}
		if err := required(map[string]bool{"name": p.Name != nil}); err != nil {
			return Result{}, err
		}
		name, err := cleanName(*p.Name)
		if err != nil {
			return Result{}, err
		}
		var t db.Tag
		err = s.pool.WithTx(ctx, func(q *db.Queries) error {
			var err error
			t, err = q.CreateTag(ctx, name)
			return storeError(kind, err)
		})
		if err != nil {
			return Result{}, err
		}
		return Result{Status: OutcomeCreated, Message: "tag created", Data: t}, nil

	case policies.ActionUpdate, policies.ActionPartialUpdate:
		var t db.Tag
		err := s.pool.WithTx(ctx, func(q *db.Queries) error {
			var err error
			if t, err = q.GetTag(ctx, req.ID); err != nil {
				return storeError(kind, err)
			}
			if err := authorize(ctx, req.Actor, req.Action, kind, &policies.Target{}); err != nil {
				return err
			}
			var p TagPayload
			if err := decode(req.Payload, &p); err != nil {
				return err
			}
			if req.Action == policies.ActionUpdate {
				if err := required(map[string]bool{"name": p.Name != nil}); err != nil {
					return err
				}
			}
			if p.Name != nil {
				if t.Name, err = cleanName(*p.Name); err != nil {
					return err
				}
			}
			return storeError(kind, q.UpdateTag(ctx, t.ID, t.Name))
		})
		if err != nil {
			return Result{}, err
		}
		return Result{Status: OutcomeOK, Message: "tag updated", Data: t}, nil

	case policies.ActionDestroy:
		err := s.pool.WithTx(ctx, func(q *db.Queries) error {
			if _, err := q.GetTag(ctx, req.ID); err != nil {
				return storeError(kind, err)
			}
			if err := authorize(ctx, req.Actor, req.Action, kind, &policies.Target{}); err != nil {
				return err
			}
			return storeError(kind, q.DeleteTag(ctx, req.ID))
		})
		if err != nil {
			return Result{}, err
		}
		return Result{Status: OutcomeDeleted, Message: "tag deleted"}, nil
	}
	return Result{}, fmt.Errorf("unsupported action %s on %s", req.Action, kind)
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errField("name", "this field may not be blank")
	}
	return name, nil
}
