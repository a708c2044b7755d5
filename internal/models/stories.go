package models

import (
	"encoding/json"
	"time"
)

type Panel struct {
	ImageURL    string `json:"image_url"`
	CaptionText string `json:"caption_text"`
	ImagePrompt string `json:"image_prompt"`
}

type Story struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	CreatedAt  time.Time `json:"created_at"`
	AudioURL   string    `json:"audio_url"`
	Transcript string    `json:"transcript"`
	Panels     []Panel   `json:"panels"`
}

// StorySummary is a story as it appears in the list of stories
type StorySummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type Stories []StorySummary

// Character lives only in a plan, it's never stored on its own
type Character struct {
	Name   string `json:"name"`
	Traits string `json:"traits"`
}

type PlanPanel struct {
	Caption     string `json:"caption"`
	ImagePrompt string `json:"image_prompt"`
}

// Plan is the story structure built before any panel gets an image
type Plan struct {
	Title      string      `json:"title"`
	Characters []Character `json:"characters"`
	Panels     []PlanPanel `json:"panels"`
}

// MarshalBinary implements the encoding.BinaryMarshaler interface
func (s Story) MarshalBinary() (data []byte, err error) {
	return json.Marshal(s)
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface
func (s *Story) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, s)
}

// MarshalBinary implements the encoding.BinaryMarshaler interface
func (s Stories) MarshalBinary() (data []byte, err error) {
	return json.Marshal(s)
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface
func (s *Stories) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, s)
}
