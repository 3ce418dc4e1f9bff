package provider

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"

	"poassist/config"
	"poassist/model"
)

// BedrockProvider runs Claude on AWS Bedrock through the Anthropic SDK's
// Bedrock transport, signed with static AWS credentials.
type BedrockProvider struct {
	accessKeyID     string
	secretAccessKey string
	region          string
	model           string
	httpClient      *http.Client
	extraOpts       []option.RequestOption
}

func NewBedrockProvider(cfg Config) *BedrockProvider {
	m := cfg.Model
	if m == "" {
		m = bedrockModel
	}
	return &BedrockProvider{
		accessKeyID:     strings.TrimSpace(cfg.AccessKeyID),
		secretAccessKey: strings.TrimSpace(cfg.SecretAccessKey),
		region:          strings.TrimSpace(cfg.Region),
		model:           m,
		httpClient:      cfg.HTTPClient,
	}
}

// validate checks credentials and region before any network call.
func (p *BedrockProvider) validate() string {
	switch {
	case p.accessKeyID == "":
		return "AWS Access Key ID is missing or invalid"
	case p.secretAccessKey == "":
		return "AWS Secret Access Key is missing or invalid"
	case !config.RegionPattern.MatchString(p.region):
		return "Invalid AWS region format. Example: us-east-1"
	}
	return ""
}

func (p *BedrockProvider) newClient() anthropic.Client {
	awsCfg := aws.Config{
		Region: p.region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(p.accessKeyID, p.secretAccessKey, ""),
		),
	}

	opts := []option.RequestOption{
		bedrock.WithConfig(awsCfg),
		option.WithMaxRetries(bedrockMaxRetries),
	}
	if p.httpClient != nil {
		opts = append(opts, option.WithHTTPClient(p.httpClient))
	}
	opts = append(opts, p.extraOpts...)

	return anthropic.NewClient(opts...)
}

func (p *BedrockProvider) SendPrompt(ctx context.Context, prompt string) model.Result {
	if msg := p.validate(); msg != "" {
		return failure("Bedrock", msg, nil)
	}

	client := p.newClient()

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   maxOutputTokens,
		Temperature: anthropic.Float(bedrockTemperature),
		TopP:        anthropic.Float(bedrockTopP),
		System:      []anthropic.TextBlockParam{{Text: SystemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	msg, err := client.Messages.New(ctx, params)
	if err != nil {
		return failure("Bedrock", bedrockErrorMessage(err), err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	content := strings.TrimSpace(text.String())
	if content == "" {
		return failure("Bedrock", "No response received from Bedrock", nil)
	}

	if config.Debug && config.DebugLog != nil {
		config.DebugLog.Printf("[Bedrock] Received %d chars from %s", len(content), p.model)
	}

	return model.Result{Content: content}
}

// bedrockErrorMessage maps AWS error types (x-amzn-ErrorType header, then
// HTTP status) to fixed messages.
func bedrockErrorMessage(err error) string {
	if msg, ok := contextMessage(err); ok {
		return msg
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		errType := ""
		if apiErr.Response != nil {
			errType = apiErr.Response.Header.Get("X-Amzn-Errortype")
			// "AccessDeniedException:http://internal.amazon.com/..."
			errType, _, _ = strings.Cut(errType, ":")
		}

		switch {
		case errType == "AccessDeniedException" || (errType == "" && apiErr.StatusCode == http.StatusForbidden):
			return "Access denied. Please verify your AWS credentials have permission to access Bedrock and try again."
		case errType == "ValidationException" || (errType == "" && apiErr.StatusCode == http.StatusBadRequest):
			return "Invalid request format. Please check your input and try again."
		case errType == "ThrottlingException" || (errType == "" && apiErr.StatusCode == http.StatusTooManyRequests):
			return "Request was throttled. Please try again in a few moments."
		case errType == "ResourceNotFoundException" || (errType == "" && apiErr.StatusCode == http.StatusNotFound):
			return "The requested AI model is not available in this region. Please check your region settings."
		case errType == "UnrecognizedClientException":
			return bedrockCredentialsMessage
		}
	}

	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "security token") || strings.Contains(lower, "credentials"):
		return bedrockCredentialsMessage
	case isNetworkError(err):
		return msgNetwork
	}
	return msg
}

const bedrockCredentialsMessage = "Invalid AWS credentials. Please check your Access Key ID and Secret Access Key in the provider settings."
