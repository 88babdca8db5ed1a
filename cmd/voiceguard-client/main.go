package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

// sampleAudio builds a minimal MP3 byte stream of silent frames. It is
// enough to pass signature validation and exercise the full pipeline.
func sampleAudio(frames int) []byte {
	frame := []byte{0xFF, 0xFB, 0x90, 0x64, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	return bytes.Repeat(frame, frames)
}

func main() {
	server := flag.String("server", "http://localhost:8000", "detection server base URL")
	apiKey := flag.String("api-key", os.Getenv("VOICE_API_KEY"), "API key for the X-API-Key header")
	language := flag.String("language", "english", "declared language of the audio")
	file := flag.String("file", "", "MP3 file to analyse (generates sample_audio.mp3 when empty)")
	flag.Parse()

	if *apiKey == "" {
		fmt.Fprintln(os.Stderr, "missing API key: pass -api-key or set VOICE_API_KEY")
		os.Exit(1)
	}

	var audio []byte
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read %s: %v\n", *file, err)
			os.Exit(1)
		}
		audio = data
	} else {
		audio = sampleAudio(100)
		if err := os.WriteFile("sample_audio.mp3", audio, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "write sample_audio.mp3: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("wrote sample_audio.mp3")
	}

	client := resty.New().
		SetBaseURL(*server).
		SetTimeout(30 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-API-Key", *apiKey)

	var result map[string]any
	resp, err := client.R().
		SetBody(map[string]string{
			"audio_base64": base64.StdEncoding.EncodeToString(audio),
			"language":     *language,
		}).
		SetResult(&result).
		SetError(&result).
		Post("/api/v1/detect")
	if err != nil {
		fmt.Fprintf(os.Stderr, "request failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("status: %d\n", resp.StatusCode())
	pretty, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "format response: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(pretty))

	if resp.IsError() {
		os.Exit(1)
	}
}
