package utils

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// AskConfirmation asks for a yes/no answer on in. force skips the prompt.
func AskConfirmation(in io.Reader, out io.Writer, message string, force bool) bool {
	if force {
		return true
	}
	fmt.Fprintf(out, "%s (y/N): ", message)
	line, _ := bufio.NewReader(in).ReadString('\n')
	response := strings.ToLower(strings.TrimSpace(line))
	return response == "y" || response == "yes"
}
