package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
)

// Generates the shared webhook signing secret and the session encryption key.
func main() {
	hexLen := flag.Int("hex-len", 64, "random hex length (must be even)")
	flag.Parse()

	if *hexLen <= 0 || *hexLen%2 != 0 {
		log.Fatalf("invalid hex-len: %d (must be positive and even)", *hexLen)
	}

	webhookSecret, err := generateRandomHex(*hexLen)
	if err != nil {
		log.Fatalf("failed to generate webhook secret: %v", err)
	}
	sessionKey, err := generateRandomHex(64)
	if err != nil {
		log.Fatalf("failed to generate session key: %v", err)
	}

	fmt.Println("Generated secrets")
	fmt.Printf("WEBHOOK_SECRET=%s\n", webhookSecret)
	fmt.Printf("SESSION_ENCRYPTION_KEY=%s\n", sessionKey)
}

func generateRandomHex(n int) (string, error) {
	b := make([]byte, n/2)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
