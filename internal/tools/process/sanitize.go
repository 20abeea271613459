package process

import (
	"fmt"
	"strings"
)

// unsafeChars are rejected in any value that ends up in a command argv.
// Commands are executed as argument vectors, never through a shell, so
// these characters cannot actually be interpreted here; rejecting them
// anyway keeps values safe if they are later pasted into a shell by the
// caller, and matches the contract that tool arguments are plain data.
const unsafeChars = "`;|&$<>(){}\n\r\x00"

// checkArg rejects argument values containing shell metacharacters.
func checkArg(name, value string) error {
	if i := strings.IndexAny(value, unsafeChars); i >= 0 {
		return fmt.Errorf("argument %q contains forbidden character %q", name, value[i])
	}
	return nil
}

// checkArgs applies checkArg to every value of a named argument list.
func checkArgs(name string, values []string) error {
	for _, v := range values {
		if err := checkArg(name, v); err != nil {
			return err
		}
	}
	return nil
}
