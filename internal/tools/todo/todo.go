// Package todo exposes the todo list stored in the database as tools
package todo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amoylab/toolserver/internal/storage"
	"github.com/amoylab/toolserver/internal/tool"
	"github.com/amoylab/toolserver/pkg/utils"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

type Service struct {
	logger *zap.Logger
	store  storage.TodoStore
}

func NewService(logger *zap.Logger, store storage.TodoStore) *Service {
	return &Service{
		logger: logger.Named("tools.todo"),
		store:  store,
	}
}

type (
	idInput struct {
		ID string `json:"id"`
	}

	createInput struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Priority    int    `json:"priority"`
		IsDone      bool   `json:"isDone"`
	}

	// updateInput leaves fields that are absent untouched
	updateInput struct {
		ID          string  `json:"id"`
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Priority    *int    `json:"priority"`
		IsDone      *bool   `json:"isDone"`
	}
)

// Tools returns the todo tools
func (s *Service) Tools() ([]tool.Tool, error) {
	defs := []struct {
		def mcp.Tool
		sig tool.Signature
	}{
		{
			def: mcp.NewTool("getAllTodos",
				mcp.WithDescription("Lists every todo. The result is a JSON array."),
			),
			sig: tool.Signature{None: s.getAllTodos},
		},
		{
			def: mcp.NewTool("getTodoById",
				mcp.WithDescription("Looks up a single todo by its id."),
				mcp.WithString("id", mcp.Required(), mcp.Description("Todo id (UUID)")),
			),
			sig: tool.Signature{Typed: tool.Typed(s.getTodoByID)},
		},
		{
			def: mcp.NewTool("removeTodoById",
				mcp.WithDescription("Deletes a todo by its id."),
				mcp.WithString("id", mcp.Required(), mcp.Description("Todo id (UUID)")),
			),
			sig: tool.Signature{Map: s.removeTodoByID},
		},
		{
			def: mcp.NewTool("createTodo",
				mcp.WithDescription("Creates a todo from a title, a description, a priority and a done flag."),
				mcp.WithString("title", mcp.Required(), mcp.Description("Title of the todo")),
				mcp.WithString("description", mcp.Description("Details of the todo")),
				mcp.WithNumber("priority", mcp.Description("Priority: 1 high, 2 medium, 3 low"), mcp.Min(1), mcp.Max(3)),
				mcp.WithBoolean("isDone", mcp.Description("Whether the todo is already done")),
			),
			sig: tool.Signature{Typed: tool.Typed(s.createTodo)},
		},
		{
			def: mcp.NewTool("updateTodo",
				mcp.WithDescription("Updates a todo. Only the fields passed are changed."),
				mcp.WithString("id", mcp.Required(), mcp.Description("Todo id (UUID)")),
				mcp.WithString("title", mcp.Description("New title")),
				mcp.WithString("description", mcp.Description("New description")),
				mcp.WithNumber("priority", mcp.Description("Priority: 1 high, 2 medium, 3 low"), mcp.Min(1), mcp.Max(3)),
				mcp.WithBoolean("isDone", mcp.Description("Whether the todo is done")),
			),
			sig: tool.Signature{Typed: tool.Typed(s.updateTodo)},
		},
	}

	tools := make([]tool.Tool, 0, len(defs))
	for _, d := range defs {
		t, err := tool.FromMCP(d.def, d.sig)
		if err != nil {
			return nil, err
		}
		tools = append(tools, t)
	}
	return tools, nil
}

func (s *Service) getAllTodos(ctx context.Context) (any, error) {
	todos, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []*storage.Todo{}
	}
	s.logger.Debug("listed todos", zap.Int("count", len(todos)))
	return todos, nil
}

func (s *Service) getTodoByID(ctx context.Context, in idInput) (any, error) {
	id, err := parseID(in.ID)
	if err != nil {
		return nil, err
	}
	return s.store.Get(ctx, id)
}

func (s *Service) removeTodoByID(ctx context.Context, args map[string]any) (any, error) {
	raw := utils.GetString(args, "id", "")
	id, err := parseID(raw)
	if err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return nil, err
	}
	s.logger.Info("removed todo", zap.String("id", id))
	return nil, nil
}

func (s *Service) createTodo(ctx context.Context, in createInput) (any, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, errors.New("title is required")
	}
	if err := checkPriority(in.Priority); err != nil {
		return nil, err
	}
	todo := &storage.Todo{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		IsDone:      in.IsDone,
	}
	if err := s.store.Create(ctx, todo); err != nil {
		return nil, err
	}
	s.logger.Info("created todo", zap.String("id", todo.ID))
	return todo, nil
}

func (s *Service) updateTodo(ctx context.Context, in updateInput) (any, error) {
	id, err := parseID(in.ID)
	if err != nil {
		return nil, err
	}
	todo, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, errors.New("title cannot be blank")
		}
		todo.Title = *in.Title
	}
	if in.Description != nil {
		todo.Description = *in.Description
	}
	if in.Priority != nil {
		if err := checkPriority(*in.Priority); err != nil {
			return nil, err
		}
		todo.Priority = *in.Priority
	}
	if in.IsDone != nil {
		todo.IsDone = *in.IsDone
	}

	if err := s.store.Update(ctx, todo); err != nil {
		return nil, err
	}
	return "Todo updated successfully.", nil
}

func parseID(raw string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid todo id %q: %w", raw, err)
	}
	return id.String(), nil
}

// checkPriority accepts 0 for the default priority
func checkPriority(p int) error {
	if p < 0 || p > 3 {
		return fmt.Errorf("priority must be between 1 and 3, got %d", p)
	}
	return nil
}
