package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	goopenai "github.com/meguminnnnnnnnn/go-openai"
)

// EinoClient completes prompts through an eino ChatModel.
type EinoClient struct {
	chat  model.ChatModel
	model string
}

// NewEinoClient builds an OpenAI-backed eino chat model. baseURL has the same
// form as for NewHTTPClient.
func NewEinoClient(ctx context.Context, apiKey, baseURL, modelName string, timeout time.Duration) (*EinoClient, error) {
	chat, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  apiKey,
		BaseURL: strings.TrimRight(baseURL, "/") + "/v1",
		Model:   modelName,
		Timeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create eino chat model: %w", err)
	}
	return NewEinoClientWithModel(chat, modelName), nil
}

// NewEinoClientWithModel wraps an existing chat model.
func NewEinoClientWithModel(chat model.ChatModel, modelName string) *EinoClient {
	return &EinoClient{chat: chat, model: modelName}
}

func (c *EinoClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	modelName := req.Model
	if modelName == "" {
		modelName = c.model
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	msgs := []*schema.Message{schema.UserMessage(req.Prompt)}
	resp, err := c.chat.Generate(ctx, msgs, model.WithModel(modelName), model.WithMaxTokens(maxTokens))
	if err != nil {
		return "", generateError(ctx, err)
	}
	if resp == nil {
		return "", &UpstreamError{Message: "choice has no message"}
	}
	if resp.Content == "" {
		return "", &UpstreamError{Message: "message has no content"}
	}
	return resp.Content, nil
}

// generateError classifies a ChatModel failure. Provider HTTP errors carry
// their status; network failures are temporary and anything else is not.
func generateError(ctx context.Context, err error) *UpstreamError {
	if ctx.Err() != nil {
		return transportError(ctx, err)
	}

	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return &UpstreamError{
			StatusCode: apiErr.HTTPStatusCode,
			Message:    apiErr.Message,
			Temporary:  retryableStatus(apiErr.HTTPStatusCode),
			Err:        err,
		}
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return &UpstreamError{
			StatusCode: reqErr.HTTPStatusCode,
			Message:    string(reqErr.Body),
			Temporary:  retryableStatus(reqErr.HTTPStatusCode),
			Err:        err,
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return &UpstreamError{Message: "request failed", Temporary: true, Err: err}
	}
	return &UpstreamError{Message: "eino generate", Err: err}
}
