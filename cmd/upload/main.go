package main

import (
	"fmt"
	"log"
	"mime"
	"os"
	"path/filepath"

	"psocial/client/internal/api"
	"psocial/client/internal/config"
	"psocial/client/internal/session"
)

// Small operational CLI: attach a file to an existing message through the
// chunked upload endpoints.
func main() {
	if len(os.Args) != 3 {
		fmt.Println("Usage: upload <msg_id> <file>")
		os.Exit(1)
	}
	msgID, path := os.Args[1], os.Args[2]

	cfg := config.Load()

	var sess *session.Session
	client := api.NewClient(cfg.APIBaseURL, func() string {
		if sess == nil {
			return ""
		}
		return sess.Token()
	})
	sess = session.New(client)

	username := os.Getenv("PSOCIAL_USERNAME")
	password := os.Getenv("PSOCIAL_PASSWORD")
	if username == "" {
		log.Fatal("PSOCIAL_USERNAME is not set")
	}
	uid, token, err := client.Login(username, password)
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}
	sess.SetAuth(uid, token)

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", path, err)
	}

	name := filepath.Base(path)
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	if err := client.UploadAttachment(name, mimeType, len(data), msgID, data); err != nil {
		log.Fatalf("Upload failed: %v", err)
	}
	fmt.Printf("Attached %s (%d bytes) to message %s.\n", name, len(data), msgID)

	if err := client.Logout(); err != nil {
		log.Println("Logout failed:", err)
	}
}
