package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/vvka-141/dbseed/pkg/dbseed"
)

// drivers lists the --driver values for shell completion.
var drivers = []dbseed.Driver{
	dbseed.DriverPostgres,
	dbseed.DriverPQ,
	dbseed.DriverMySQL,
	dbseed.DriverSQLite,
	dbseed.DriverMongo,
	dbseed.DriverMemory,
}

// commonEncodings are suggested for --encoding; any WHATWG label is accepted.
var commonEncodings = []string{"utf-8", "utf-16le", "utf-16be", "latin1", "windows-1251", "windows-1252", "shift_jis", "gbk"}

// fixtureExtensions limits file completion to fixture files.
var fixtureExtensions = []string{"json", "yml", "yaml", "tengo"}

func completeDrivers(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var matches []string
	for _, d := range drivers {
		if strings.HasPrefix(string(d), toComplete) {
			matches = append(matches, string(d))
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}

func completeAuthMethods(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var matches []string
	for _, m := range dbseed.AuthMethods {
		if strings.HasPrefix(string(m), toComplete) {
			matches = append(matches, string(m))
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}

func completeEncodings(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var matches []string
	for _, e := range commonEncodings {
		if strings.HasPrefix(e, strings.ToLower(toComplete)) {
			matches = append(matches, e)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}

// completeFixtureFiles lets the shell complete fixture files by extension.
func completeFixtureFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return fixtureExtensions, cobra.ShellCompDirectiveFilterFileExt
}
