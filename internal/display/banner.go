package display

import (
	"fmt"
	"os"

	"github.com/backmassage/movetrace/internal/logging"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner() {
	if logging.Magenta != "" {
		fmt.Fprint(os.Stdout, "\033[1;95m")
	}
	fmt.Fprint(os.Stdout, ` __  __                _____
|  \/  | _____   _____|_   _| __ __ _  ___ ___
| |\/| |/ _ \ \ / / _ \ | || '__/ _`+"`"+` |/ __/ _ \
| |  | | (_) \ V /  __/ | || | | (_| | (_|  __/
|_|  |_|\___/ \_/ \___| |_||_|  \__,_|\___\___|
`)
	if logging.Magenta != "" {
		fmt.Fprintln(os.Stdout, logging.NC)
	}
}
