// Command hashpass prints the bcrypt hash of a staff passcode for use as
// STAFF_PASSCODE_HASH.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/kavya5cloud/moc/internal/utils"
)

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	flag.Parse()

	plain := flag.Arg(0)
	if plain == "" {
		fmt.Fprint(os.Stderr, "passcode: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(os.Stderr, "no passcode given")
			os.Exit(2)
		}
		plain = strings.TrimRight(line, "\r\n")
	}
	hash, err := utils.HashPassword(plain, *cost)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
