package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/mtraver/gaelog"

	"github.com/Muhammad-Zunain/air-monitoring/airapi"
)

// ESP32 application images top out well below this.
const maxFirmwareSize = 16 << 20

// firmwareHandler accepts a firmware image as the "file" field of a multipart form and
// forwards it to the backend, which flashes the controllers.
type firmwareHandler struct {
	Backend Backend

	// Token, if not empty, must be given as the token parameter or as a bearer token.
	Token string
}

func (h firmwareHandler) authenticate(r *http.Request) error {
	if h.Token == "" {
		return nil
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		authHeader := r.Header.Get("Authorization")
		if parts := strings.Fields(authHeader); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			token = parts[1]
		}
	}

	if token == "" {
		return errors.New("missing token")
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(h.Token)) != 1 {
		return errors.New("bad token")
	}
	return nil
}

func (h firmwareHandler) serve(w http.ResponseWriter, r *http.Request) error {
	ctx := newContext(r)

	if err := h.authenticate(r); err != nil {
		gaelog.Criticalf(ctx, "Authentication failed: %v", err)
		return newError(http.StatusUnauthorized, "Unauthorized")
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFirmwareSize)
	f, hdr, err := r.FormFile("file")
	if err != nil {
		return newError(http.StatusBadRequest, "Missing firmware file: %v", err)
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*defaultTimeout)
	defer cancel()

	err = h.Backend.UploadFirmware(ctx, hdr.Filename, f)
	var serr *airapi.StatusError
	switch {
	case errors.Is(err, airapi.ErrNotBin):
		return newError(http.StatusBadRequest, "Only .bin files are supported")
	case errors.As(err, &serr):
		msg := serr.Message
		if msg == "" {
			msg = "Failed to upload firmware"
		}
		return newError(http.StatusBadGateway, "%s", msg)
	case err != nil:
		return err
	}

	gaelog.Infof(ctx, "Uploaded firmware %q (%d bytes)", hdr.Filename, hdr.Size)
	respondJSON(w, r, http.StatusOK, map[string]string{"message": "Firmware uploaded successfully"})
	return nil
}
