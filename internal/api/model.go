package api

import (
	"github.com/alvinbaena/pwd-analyzer/internal/util"
	"github.com/alvinbaena/pwd-analyzer/pkg/hibp"
	"github.com/alvinbaena/pwd-analyzer/pkg/strength"
)

// MaxPasswordLength is the longest password, in runes, any endpoint accepts.
const MaxPasswordLength = 256

// An empty password is rejected here, there is nothing to check. Fields take
// empty text since a cleared field still needs feedback.
type queryRequest struct {
	Password string `json:"password" binding:"required,max=256"`
	// Optional words (user name, email) zxcvbn should penalize.
	UserInputs []string `json:"userInputs" binding:"max=16,dive,max=256"`
}

type queryResponse struct {
	Tier       strength.Tier        `json:"tier"`
	Reason     string               `json:"reason"`
	Label      string               `json:"label"`
	Color      string               `json:"color"`
	Pwned      bool                 `json:"pwned"`
	Strength   *strength.Estimation `json:"strength,omitempty"`
	Suggestion string               `json:"suggestion,omitempty"`
}

type hashRequest struct {
	Hash string `json:"hash" binding:"required"`
}

type hashResponse struct {
	Pwned bool `json:"pwned"`
}

type suggestResponse struct {
	Password string `json:"password"`
}

type fieldRequest struct {
	// Empty text is valid input, a cleared field is weak.
	Password *string `json:"password" binding:"required,max=256"`
}

type handoffRequest struct {
	Password string `json:"password" binding:"required,max=256"`
}

type handoffResponse struct {
	Token string `json:"token"`
}

type statusResponse struct {
	Lookup  hibp.Stats        `json:"lookup"`
	Fields  int               `json:"fields"`
	Memory  util.MemoryStatus `json:"memory"`
	Version string            `json:"version"`
}
