package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"max.ks1230/spendwise/internal/model/customerr"
	"max.ks1230/spendwise/internal/model/feedback"
)

type FeedbackController struct {
	feedback *feedback.Service
}

func NewFeedbackController(feedbackSvc *feedback.Service) *FeedbackController {
	return &FeedbackController{feedback: feedbackSvc}
}

type submitFeedbackRequest struct {
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}

func (ctrl *FeedbackController) Submit(c *gin.Context) {
	var req submitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, customerr.NewValidation("invalid request body"))
		return
	}

	if err := ctrl.feedback.Submit(c.Request.Context(), currentUser(c), req.Text, req.Rating); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "thanks for your feedback"})
}

type feedbackResponse struct {
	Timestamp string `json:"timestamp"`
	Username  string `json:"username"`
	Rating    int    `json:"rating"`
	Text      string `json:"text"`
}

type tipReactionRequest struct {
	Tip      string `json:"tip"`
	Reaction string `json:"reaction"`
}

// TipReaction records a thumbs-up/down on the tip the widget showed.
func (ctrl *FeedbackController) TipReaction(c *gin.Context) {
	var req tipReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, customerr.NewValidation("invalid request body"))
		return
	}

	if err := ctrl.feedback.SubmitTipReaction(c.Request.Context(), currentUser(c), req.Tip, req.Reaction); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "reaction recorded"})
}

type tipReactionResponse struct {
	Timestamp string `json:"timestamp"`
	Username  string `json:"username"`
	Tip       string `json:"tip"`
	Reaction  string `json:"reaction"`
}

// AdminTipReactions lists tip votes for the admin view, newest first.
func (ctrl *FeedbackController) AdminTipReactions(c *gin.Context) {
	recs, err := ctrl.feedback.ListTipReactionsNewestFirst(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	res := make([]tipReactionResponse, 0, len(recs))
	for _, rec := range recs {
		res = append(res, tipReactionResponse{
			Timestamp: rec.Timestamp.UTC().Format(time.RFC3339),
			Username:  rec.Username,
			Tip:       rec.Tip,
			Reaction:  rec.Reaction,
		})
	}
	c.JSON(http.StatusOK, gin.H{"tip_reactions": res})
}

// AdminList is the administrator review view, newest first.
func (ctrl *FeedbackController) AdminList(c *gin.Context) {
	recs, err := ctrl.feedback.ListNewestFirst(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	res := make([]feedbackResponse, 0, len(recs))
	for _, rec := range recs {
		res = append(res, feedbackResponse{
			Timestamp: rec.Timestamp.UTC().Format(time.RFC3339),
			Username:  rec.Username,
			Rating:    rec.Rating,
			Text:      rec.Text,
		})
	}
	c.JSON(http.StatusOK, gin.H{"feedback": res})
}
