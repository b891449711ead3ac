package main

import (
	"bufio"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	client "github.com/root-ali/iris-console/client/v1"
)

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTabWriter() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
}

// promptLine reads one line of input after printing the label.
func promptLine(label string) (string, error) {
	fmt.Print(label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptSecret reads input with terminal echo disabled.
func promptSecret(label string) (string, error) {
	fmt.Print(label)
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(secret), nil
}

// writeCaptchaImage decodes the challenge image and writes it to a temp
// file for the operator to open.
func writeCaptchaImage(challenge client.CaptchaChallenge) (string, error) {
	b64 := challenge.B64
	if i := strings.Index(b64, ";base64,"); i >= 0 {
		b64 = b64[i+len(";base64,"):]
	}
	img, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", err
	}
	f, err := os.CreateTemp("", "iris-captcha-*.png")
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := f.Write(img); err != nil {
		return "", err
	}
	return f.Name(), nil
}
