package web

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/sleepsweetly/aurafx-relay/notify"
	"github.com/sleepsweetly/aurafx-relay/stats"
)

// Embed colors for the generation notification: gold for the 3D editor,
// blue for everything else.
const (
	colorBlue = 0x3498DB
	colorGold = 0xF39C12
)

const (
	footerText = "Powered by AuraFX"
	footerIcon = "https://aurafx.vercel.app/favicon.ico"
)

var errMissingDetails = errors.New("web: missing notification details")

// notifyPayload covers both shapes the editors post: the nested one
// ({details:{...}, todayCount, totalUses}) and the flat one
// ({skillName, elementCount, ..., canvasImage}).
type notifyPayload struct {
	Details    *notifyDetails `json:"details"`
	TodayCount *int           `json:"todayCount"`
	TotalUses  *int           `json:"totalUses"`

	SkillName    string   `json:"skillName"`
	Source       string   `json:"source"`
	ElementCount *int     `json:"elementCount"`
	LayerCount   *int     `json:"layerCount"`
	ActiveModes  []string `json:"activeModes"`
	UserID       string   `json:"userId"`
	CanvasImage  string   `json:"canvasImage"`
}

type notifyDetails struct {
	SkillName    string   `json:"skillName"`
	Source       string   `json:"source"`
	ElementCount *int     `json:"elementCount"`
	LayerCount   *int     `json:"layerCount"`
	ActiveModes  []string `json:"activeModes"`
	UserID       string   `json:"userId"`
}

// normalize converts whichever shape arrived into a stats.Event. A body
// carrying neither a details object nor any flat field is rejected.
func (p *notifyPayload) normalize() (stats.Event, error) {
	if p.Details != nil {
		userID := p.Details.UserID
		if userID == "" {
			userID = p.UserID
		}
		return stats.Event{
			SkillName:    p.Details.SkillName,
			Source:       p.Details.Source,
			ElementCount: p.Details.ElementCount,
			LayerCount:   p.Details.LayerCount,
			ActiveModes:  p.Details.ActiveModes,
			UserID:       userID,
			TodayCount:   p.TodayCount,
			TotalUses:    p.TotalUses,
		}, nil
	}

	if p.SkillName == "" && p.Source == "" && p.ElementCount == nil &&
		p.LayerCount == nil && len(p.ActiveModes) == 0 && p.CanvasImage == "" {
		return stats.Event{}, errMissingDetails
	}
	return stats.Event{
		SkillName:    p.SkillName,
		Source:       p.Source,
		ElementCount: p.ElementCount,
		LayerCount:   p.LayerCount,
		ActiveModes:  p.ActiveModes,
		UserID:       p.UserID,
		TodayCount:   p.TodayCount,
		TotalUses:    p.TotalUses,
	}, nil
}

const canvasImagePrefix = "data:image/png;base64,"

// decodeCanvasImage decodes the editor's canvas preview, sent as a PNG
// data URL.
func decodeCanvasImage(dataURL string) ([]byte, error) {
	raw, ok := strings.CutPrefix(dataURL, canvasImagePrefix)
	if !ok {
		return nil, errors.New("web: canvas image is not a base64 PNG data URL")
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("web: decode canvas image: %w", err)
	}
	return data, nil
}

func previewFilename() string {
	return "preview_" + uuid.NewString() + ".png"
}

// buildNotification renders the generation event as an embed payload.
func buildNotification(ev stats.Event, receipt stats.Receipt, image *notify.Attachment) notify.Notification {
	source := ev.Source
	if source == "" {
		source = "2D Editor"
	}
	skill := ev.SkillName
	if skill == "" {
		skill = "Unknown"
	}
	color := colorBlue
	if source == "3D Editor" {
		color = colorGold
	}
	modes := "None"
	if len(ev.ActiveModes) > 0 {
		modes = strings.Join(ev.ActiveModes, ", ")
	}

	n := notify.Notification{
		Title:       fmt.Sprintf("✨ New Effect Code Generated! (%s)", source),
		Description: fmt.Sprintf("*Skill Name: `%s`*", skill),
		Color:       color,
		Fields: []notify.Field{
			{Name: "Layer Count", Value: countValue(ev.LayerCount), Inline: true},
			{Name: "Element Count", Value: countValue(ev.ElementCount), Inline: true},
			{Name: "⚡ Active Modes", Value: modes},
		},
		Footer: notify.Footer{Text: footerText, IconURL: footerIcon},
		Image:  image,
	}
	if receipt.Mention {
		n.MentionUserID = receipt.MentionUserID
	}
	return n
}

func countValue(v *int) string {
	if v == nil {
		return "**N/A**"
	}
	return fmt.Sprintf("**%d**", *v)
}
