package api

import (
	"context"
	"io"
	"net/http"
)

// Vocab returns the HED vocabulary document used as a prompt ingredient.
func (c *Client) Vocab(ctx context.Context) (string, error) {
	var payload vocabPayload
	if err := c.call(ctx, http.MethodGet, pathVocab, nil, &payload); err != nil {
		return "", err
	}
	return payload.Vocab, nil
}

// SaveVocab replaces the vocabulary document.
func (c *Client) SaveVocab(ctx context.Context, vocab string) error {
	return c.call(ctx, http.MethodPost, pathVocab, vocabPayload{Vocab: vocab}, nil)
}

// DownloadVocab streams the vocabulary file into w and returns the suggested file name.
func (c *Client) DownloadVocab(ctx context.Context, w io.Writer) (string, error) {
	name, err := c.download(ctx, pathDownloadVocab, w)
	if err != nil {
		return "", err
	}
	if name == "" {
		name = "HED_vocab_reformatted.xml"
	}
	return name, nil
}
