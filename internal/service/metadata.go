package service

import (
	"io"
	"time"
)

// TrackMetadata is the input to minting: track details plus either raw
// assets to upload or pre-computed content hashes.
type TrackMetadata struct {
	Title       string
	Artist      string
	Genre       string
	Description string
	Duration    int // seconds

	// Price is the human-readable listing price in the native currency.
	Price string
	// RoyaltyPercentage is a whole number 0–50.
	RoyaltyPercentage int

	// Raw assets. Ignored when the matching hash is already set.
	AudioFile  io.Reader
	AudioName  string
	CoverImage io.Reader
	CoverName  string

	// Pre-computed content hashes; skip the upload when present.
	AudioHash string
	CoverHash string
}

// Attribute is one display trait in an NFT metadata document.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     any    `json:"value"`
}

// NFTMetadata is the JSON document stored off-chain and referenced by the
// token's URI.
type NFTMetadata struct {
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Image        string      `json:"image,omitempty"`
	AnimationURL string      `json:"animation_url,omitempty"` // the audio asset
	Attributes   []Attribute `json:"attributes"`
	CreatedAt    string      `json:"created_at"`
}

// GenerateNFTMetadata builds the metadata document for a track. Pure data
// transformation, no I/O.
func GenerateNFTMetadata(meta TrackMetadata, audioHash, coverHash string) *NFTMetadata {
	doc := &NFTMetadata{
		Name:        meta.Title,
		Description: meta.Description,
		Attributes: []Attribute{
			{TraitType: "Artist", Value: meta.Artist},
		},
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if meta.Genre != "" {
		doc.Attributes = append(doc.Attributes, Attribute{TraitType: "Genre", Value: meta.Genre})
	}
	if meta.Duration > 0 {
		doc.Attributes = append(doc.Attributes, Attribute{TraitType: "Duration", Value: meta.Duration})
	}
	if audioHash != "" {
		doc.AnimationURL = "ipfs://" + audioHash
	}
	if coverHash != "" {
		doc.Image = "ipfs://" + coverHash
	}
	return doc
}
