// Command ocmf parses, verifies, and checks OCMF charge-metering records.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ocmf-tools/ocmf-go/cmd/ocmf/commands"
)

// exitVerdict distinguishes a failed verification or compliance verdict
// from usage and I/O errors, which exit 1.
const exitVerdict = 2

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	root := commands.NewRootCommand()
	if err := root.ExecuteContext(context.Background()); err != nil {
		if errors.Is(err, commands.ErrVerdictFailed) {
			os.Exit(exitVerdict)
		}
		logrus.Fatal(err)
	}
}
