package endpoints

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/freestyle/internal/api"
	"github.com/jackzampolin/freestyle/internal/svcctx"
)

// AdviceRequest names the prompt to ask about.
type AdviceRequest struct {
	Prompt string `json:"prompt"`
}

// AdviceResponse carries practice advice.
type AdviceResponse struct {
	Advice string `json:"advice"`
}

// DrillsResponse carries generated drills.
type DrillsResponse struct {
	Drills string `json:"drills"`
}

// DanceAdviceEndpoint handles POST /api/dance-advice.
type DanceAdviceEndpoint struct{}

func (e *DanceAdviceEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/dance-advice", e.handler
}

func (e *DanceAdviceEndpoint) Access() api.Access { return api.AccessPublic }

func (e *DanceAdviceEndpoint) Group() string { return "advice" }

// handler godoc
//
//	@Summary		Practice advice
//	@Description	Asks the language model for short advice on practicing a prompt
//	@Tags			advice
//	@Accept			json
//	@Produce		json
//	@Param			request	body		AdviceRequest	true	"Prompt label"
//	@Success		200		{object}	AdviceResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/dance-advice [post]
func (e *DanceAdviceEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	advisor := svcctx.AdvisorFrom(r.Context())
	if advisor == nil {
		writeError(w, http.StatusServiceUnavailable, "advisor not initialized")
		return
	}

	var req AdviceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	text, err := advisor.Advice(r.Context(), req.Prompt)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AdviceResponse{Advice: text})
}

func (e *DanceAdviceEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "tips <prompt>",
		Short: "Ask for advice on practicing a prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp AdviceResponse
			if err := api.NewClient(getServerURL()).Post(cmd.Context(), "/api/dance-advice", AdviceRequest{Prompt: args[0]}, &resp); err != nil {
				return err
			}
			if api.GetOutputFormat() == api.OutputFormatJSON {
				return api.Output(resp)
			}
			fmt.Println(resp.Advice)
			return nil
		},
	}
}

// CreateDrillsEndpoint handles POST /api/create-drills.
type CreateDrillsEndpoint struct{}

func (e *CreateDrillsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/create-drills", e.handler
}

func (e *CreateDrillsEndpoint) Access() api.Access { return api.AccessPublic }

func (e *CreateDrillsEndpoint) Group() string { return "advice" }

// handler godoc
//
//	@Summary		Generate drills
//	@Description	Asks the language model for a structured practice drill for a prompt
//	@Tags			advice
//	@Accept			json
//	@Produce		json
//	@Param			request	body		AdviceRequest	true	"Prompt label"
//	@Success		200		{object}	DrillsResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/create-drills [post]
func (e *CreateDrillsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	advisor := svcctx.AdvisorFrom(r.Context())
	if advisor == nil {
		writeError(w, http.StatusServiceUnavailable, "advisor not initialized")
		return
	}

	var req AdviceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	text, err := advisor.Drills(r.Context(), req.Prompt)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DrillsResponse{Drills: text})
}

func (e *CreateDrillsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "drills <prompt>",
		Short: "Generate practice drills for a prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp DrillsResponse
			if err := api.NewClient(getServerURL()).Post(cmd.Context(), "/api/create-drills", AdviceRequest{Prompt: args[0]}, &resp); err != nil {
				return err
			}
			if api.GetOutputFormat() == api.OutputFormatJSON {
				return api.Output(resp)
			}
			fmt.Println(resp.Drills)
			return nil
		},
	}
}
