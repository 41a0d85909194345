// Package structured forces a tool-calling chat model to answer through a
// single declared tool and decodes the tool arguments into a typed value.
package structured

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

// ErrNoToolCall is returned when the model replied without calling the
// declared tool.
var ErrNoToolCall = errors.New("no tool call in model response")

type PromptBuilder[TInput any] func(ctx context.Context, input TInput) ([]*schema.Message, error)

type Chain[TInput, TOutput any] struct {
	promptBuilder PromptBuilder[TInput]
	chatModel     model.ToolCallingChatModel
	toolInfo      *schema.ToolInfo
}

// NewChain derives the tool schema from TOutput and binds it to the model
// with forced tool choice.
func NewChain[TInput, TOutput any](
	chatModel model.ToolCallingChatModel,
	promptBuilder PromptBuilder[TInput],
	toolName string,
	toolDesc string,
) (*Chain[TInput, TOutput], error) {
	toolInfo, err := utils.GoStruct2ToolInfo[TOutput](toolName, toolDesc)
	if err != nil {
		return nil, fmt.Errorf("convert tool info failed: %w", err)
	}
	return &Chain[TInput, TOutput]{
		promptBuilder: promptBuilder,
		chatModel:     chatModel,
		toolInfo:      toolInfo,
	}, nil
}

// Invoke runs the chain and decodes the first call of the declared tool.
func (s *Chain[TInput, TOutput]) Invoke(ctx context.Context, input TInput) (*TOutput, error) {
	results, err := s.InvokeAll(ctx, input)
	if err != nil {
		return nil, err
	}
	return &results[0], nil
}

// InvokeAll runs the chain and decodes every call of the declared tool, in
// reply order. Models occasionally split one logical answer across several
// tool calls; callers decide how to fold them.
func (s *Chain[TInput, TOutput]) InvokeAll(ctx context.Context, input TInput) ([]TOutput, error) {
	messages, err := s.promptBuilder(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("build prompt failed: %w", err)
	}

	response, err := s.chatModel.Generate(ctx, messages,
		model.WithTools([]*schema.ToolInfo{s.toolInfo}),
		model.WithToolChoice(schema.ToolChoiceForced, s.toolInfo.Name),
	)
	if err != nil {
		return nil, fmt.Errorf("call model failed: %w", err)
	}

	var results []TOutput
	for _, call := range response.ToolCalls {
		if call.Function.Name != s.toolInfo.Name {
			continue
		}
		var result TOutput
		if uErr := sonic.UnmarshalString(call.Function.Arguments, &result); uErr != nil {
			return nil, fmt.Errorf("parse ToolCall arguments failed: %w", uErr)
		}
		results = append(results, result)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoToolCall, s.toolInfo.Name)
	}
	return results, nil
}

func (s *Chain[TInput, TOutput]) ToolInfo() *schema.ToolInfo {
	return s.toolInfo
}
