package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

func must(err error) {
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

type SemanticVersion struct {
	major int
	minor int
	patch int
}

var semVerRegex = regexp.MustCompile(`^v(\d+)\.(\d+)\.(\d+)$`)

func ParseSemVer(s string) (SemanticVersion, error) {
	res := semVerRegex.FindStringSubmatch(s)
	if len(res) < 4 {
		return SemanticVersion{}, fmt.Errorf("invalid semantic version: '%s'", s)
	}

	var sv SemanticVersion
	var err error
	if sv.major, err = strconv.Atoi(res[1]); err != nil {
		return sv, err
	}
	if sv.minor, err = strconv.Atoi(res[2]); err != nil {
		return sv, err
	}
	if sv.patch, err = strconv.Atoi(res[3]); err != nil {
		return sv, err
	}

	return sv, nil
}

func (sv SemanticVersion) NextMajor() SemanticVersion {
	return SemanticVersion{major: sv.major + 1}
}

func (sv SemanticVersion) NextMinor() SemanticVersion {
	return SemanticVersion{major: sv.major, minor: sv.minor + 1}
}

func (sv SemanticVersion) NextPatch() SemanticVersion {
	return SemanticVersion{major: sv.major, minor: sv.minor, patch: sv.patch + 1}
}

func (sv SemanticVersion) String() string {
	return fmt.Sprintf("v%d.%d.%d", sv.major, sv.minor, sv.patch)
}

// Bump resolves a --version argument against the current version.
func Bump(current SemanticVersion, how string) (SemanticVersion, error) {
	switch how {
	case "":
		return SemanticVersion{}, fmt.Errorf("--version is required with release")
	case "major":
		return current.NextMajor(), nil
	case "minor":
		return current.NextMinor(), nil
	case "patch":
		return current.NextPatch(), nil
	default:
		return ParseSemVer(how)
	}
}

// Target is a Raspberry Pi build target.
type Target struct {
	Name   string
	GOARCH string
	GOARM  string
}

var targets = []Target{
	{Name: "armv6", GOARCH: "arm", GOARM: "6"},
	{Name: "armv7", GOARCH: "arm", GOARM: "7"},
	{Name: "arm64", GOARCH: "arm64"},
}

// LDFlags fills the build info variables of the valve binary.
func LDFlags(version SemanticVersion, buildTime time.Time, commit string) string {
	vars := []string{
		"-X main.version=" + version.String(),
		"-X main.buildUnixTimestamp=" + strconv.FormatInt(buildTime.Unix(), 10),
		"-X main.commitHash=" + commit,
	}
	return "-s -w " + strings.Join(vars, " ")
}

func (t Target) Env() []string {
	env := []string{"GOOS=linux", "GOARCH=" + t.GOARCH, "CGO_ENABLED=0"}
	if t.GOARM != "" {
		env = append(env, "GOARM="+t.GOARM)
	}
	return env
}

func (t Target) Output(version SemanticVersion) string {
	return filepath.Join("dist", fmt.Sprintf("valve_%s_%s", version, t.Name))
}

var (
	actionFlag  string
	versionFlag string
)

func main() {
	flag.StringVar(&actionFlag, "action", "", "Choose your action: build or release")
	flag.StringVar(&versionFlag, "version", "", "Semver to bump (major, minor, patch) or an exact version (e.g. v1.2.3)")

	flag.Parse()

	switch actionFlag {
	case "":
		fmt.Println("An action is required")
		os.Exit(1)

	case "build":
		version, err := nextVersion()
		must(err)
		build(version)

	case "release":
		release()

	default:
		fmt.Printf("Invalid action: '%s'\n", actionFlag)
		os.Exit(1)
	}
}

func nextVersion() (SemanticVersion, error) {
	gitDescribe, err := exec.Command("git", "describe", "--tags", "--abbrev=0").Output()
	if err != nil {
		return SemanticVersion{}, fmt.Errorf("git describe: %w", err)
	}
	currentVersionStr := strings.TrimSpace(string(gitDescribe))
	fmt.Println("Current version:", currentVersionStr)

	currentVersion, err := ParseSemVer(currentVersionStr)
	if err != nil {
		return SemanticVersion{}, err
	}

	return Bump(currentVersion, versionFlag)
}

func build(version SemanticVersion) []string {
	commit, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	must(err)
	ldflags := LDFlags(version, time.Now(), strings.TrimSpace(string(commit)))

	var outputs []string
	for _, target := range targets {
		out := target.Output(version)
		fmt.Println("Building", out)

		cmd := exec.Command("go", "build", "-trimpath", "-ldflags", ldflags, "-o", out, ".")
		cmd.Env = append(os.Environ(), target.Env()...)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		must(cmd.Run())

		outputs = append(outputs, out)
	}
	return outputs
}

func release() {
	fmt.Println("Cutting new release")

	newVersion, err := nextVersion()
	must(err)
	fmt.Println("New version:", newVersion)

	outputs := build(newVersion)

	args := append([]string{"release", "create", newVersion.String(), "--generate-notes"}, outputs...)
	releaseCmd := exec.Command("gh", args...)
	releaseCmd.Stdout = os.Stdout
	releaseCmd.Stderr = os.Stderr
	must(releaseCmd.Run())
}
