package plurk

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	// Packages
	term "golang.org/x/term"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// StdinVerifier returns a verifier callback which prints the
// authorization URL and reads the verification code from stdin. It
// refuses to prompt when stdin is not a terminal
func StdinVerifier() VerifierFunc {
	return func(ctx context.Context, authURL string) (string, error) {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return "", ErrBadParameter.With("stdin is not a terminal")
		}
		return promptVerifier(os.Stdin, os.Stdout, authURL)
	}
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// promptVerifier reads a verification code, asking for confirmation
// before accepting it
func promptVerifier(r io.Reader, w io.Writer, authURL string) (string, error) {
	fmt.Fprintln(w, "Open the following URL and authorize it:")
	fmt.Fprintln(w, authURL)

	reader := bufio.NewReader(r)
	for {
		fmt.Fprint(w, "Input the verification number: ")
		verifier, err := reader.ReadString('\n')
		if err != nil {
			return "", err
		}
		verifier = strings.TrimSpace(verifier)

		fmt.Fprint(w, "Are you sure? (y/n) ")
		confirm, err := reader.ReadString('\n')
		if err != nil {
			return "", err
		}
		switch strings.ToLower(strings.TrimSpace(confirm)) {
		case "y":
			if verifier != "" {
				return verifier, nil
			}
		case "n":
			// ask again
		default:
			fmt.Fprintln(w, "Please answer 'y' or 'n'")
		}
	}
}
