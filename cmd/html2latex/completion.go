package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// shells lists the supported shells in help order.
var shells = []Shell{ShellBash, ShellZsh, ShellFish, ShellPowerShell}

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	Args        []string // fixed positional values (shell names, command names)
	TakesFiles  bool     // accepts file arguments
	FilePattern string   // glob for file arguments
}

// completionMeta holds completion hints the FlagSet cannot express.
// Flag names, shorthands and descriptions come from the FlagSet itself.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"encoding": {Values: []string{"utf-8", "gbk", "gb18030", "big5", "shift_jis", "euc-kr", "windows-1252"}},
	"config":   {FileGlob: "*.yaml,*.yml"},
	"output":   {IsDir: true},
}

// inputPattern is the glob of files the convert command reads.
const inputPattern = "*.html,*.htm,*.md,*.markdown"

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet,
// enriched with flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are read from the same FlagSets the commands parse with.
func getCommands() []commandDef {
	commands := []commandDef{
		{
			Name:        "convert",
			Desc:        "Convert HTML or Markdown fragments to LaTeX",
			Flags:       extractFlagsFromFlagSet(newConvertFlagSet(&convertFlags{})),
			TakesFiles:  true,
			FilePattern: inputPattern,
		},
		{
			Name:  "config",
			Desc:  "Print the effective configuration as YAML",
			Flags: extractFlagsFromFlagSet(newConfigFlagSet(&commonFlags{})),
		},
		{Name: "completion", Desc: "Generate shell completion script"},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
	}

	for i := range commands {
		switch commands[i].Name {
		case "completion":
			for _, s := range shells {
				commands[i].Args = append(commands[i].Args, string(s))
			}
		case "help":
			for _, c := range commands {
				commands[i].Args = append(commands[i].Args, c.Name)
			}
		}
	}
	return commands
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	var script string
	switch shell {
	case ShellBash:
		script = generateBash(getCommands())
	case ShellZsh:
		script = generateZsh(getCommands())
	case ShellFish:
		script = generateFish(getCommands())
	case ShellPowerShell:
		script = generatePowerShell(getCommands())
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}
	_, err := io.WriteString(w, script)
	return err
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: html2latex completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(html2latex completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (after compinit):")
	fmt.Fprintln(w, "    eval \"$(html2latex completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    html2latex completion fish > ~/.config/fish/completions/html2latex.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    html2latex completion powershell | Out-String | Invoke-Expression")
}

// ---------------------------------------------------------------------------
// Shared helpers
// ---------------------------------------------------------------------------

// globExtensions turns "*.yaml,*.yml" into ["yaml", "yml"].
func globExtensions(glob string) []string {
	var exts []string
	for _, g := range strings.Split(glob, ",") {
		if ext := strings.TrimPrefix(strings.TrimSpace(g), "*."); ext != "" {
			exts = append(exts, ext)
		}
	}
	return exts
}

func commandNames(commands []commandDef) []string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.Name
	}
	return names
}

// flagSpellings returns "--long" and, when set, "-s".
func flagSpellings(f flagDef) []string {
	out := []string{"--" + f.Long}
	if f.Short != "" {
		out = append(out, "-"+f.Short)
	}
	return out
}

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func generateBash(commands []commandDef) string {
	var b strings.Builder

	b.WriteString("# bash completion for html2latex\n\n")
	b.WriteString("_html2latex_completions() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    COMPREPLY=()\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(commandNames(commands), " "))
	b.WriteString("        return 0\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n")
	b.WriteString("    case \"$cmd\" in\n")

	for _, c := range commands {
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		writeBashCommand(&b, c)
		b.WriteString("            ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("    return 0\n")
	b.WriteString("}\n\n")
	b.WriteString("complete -F _html2latex_completions html2latex\n")
	return b.String()
}

func writeBashCommand(b *strings.Builder, c commandDef) {
	var valueCases []string
	var names []string
	for _, f := range c.Flags {
		spell := flagSpellings(f)
		names = append(names, spell...)
		pattern := strings.Join(spell, "|")
		switch f.Type {
		case flagEnum:
			valueCases = append(valueCases, fmt.Sprintf(
				"                %s) COMPREPLY=( $(compgen -W %q -- \"$cur\") ); return 0 ;;",
				pattern, strings.Join(f.Values, " ")))
		case flagFile:
			valueCases = append(valueCases, fmt.Sprintf(
				"                %s) COMPREPLY=( $(compgen -f -X '!*.@(%s)' -- \"$cur\") $(compgen -d -- \"$cur\") ); return 0 ;;",
				pattern, strings.Join(globExtensions(f.FileGlob), "|")))
		case flagDir:
			valueCases = append(valueCases, fmt.Sprintf(
				"                %s) COMPREPLY=( $(compgen -d -- \"$cur\") ); return 0 ;;", pattern))
		case flagString, flagInt:
			valueCases = append(valueCases, fmt.Sprintf("                %s) return 0 ;;", pattern))
		}
	}

	if len(valueCases) > 0 {
		b.WriteString("            case \"$prev\" in\n")
		for _, vc := range valueCases {
			b.WriteString(vc + "\n")
		}
		b.WriteString("            esac\n")
	}

	switch {
	case len(c.Args) > 0:
		fmt.Fprintf(b, "            COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(c.Args, " "))
	case c.TakesFiles:
		b.WriteString("            if [[ \"$cur\" == -* ]]; then\n")
		fmt.Fprintf(b, "                COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(names, " "))
		b.WriteString("            else\n")
		fmt.Fprintf(b, "                COMPREPLY=( $(compgen -f -X '!*.@(%s)' -- \"$cur\") $(compgen -d -- \"$cur\") )\n",
			strings.Join(globExtensions(c.FilePattern), "|"))
		b.WriteString("            fi\n")
	case len(names) > 0:
		fmt.Fprintf(b, "            COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(names, " "))
	}
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

var zshEscaper = strings.NewReplacer(`'`, `'\''`, `[`, `\[`, `]`, `\]`, `:`, `\:`)

func generateZsh(commands []commandDef) string {
	var b strings.Builder

	b.WriteString("#compdef html2latex\n\n")
	b.WriteString("_html2latex() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range commands {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscaper.Replace(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe -t commands 'html2latex command' commands\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    shift words\n")
	b.WriteString("    (( CURRENT-- ))\n")
	b.WriteString("    case \"$words[1]\" in\n")

	for _, c := range commands {
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		writeZshCommand(&b, c)
		b.WriteString("            ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("if [[ \"$funcstack[1]\" == \"_html2latex\" ]]; then\n")
	b.WriteString("    _html2latex \"$@\"\n")
	b.WriteString("else\n")
	b.WriteString("    compdef _html2latex html2latex\n")
	b.WriteString("fi\n")
	return b.String()
}

func writeZshCommand(b *strings.Builder, c commandDef) {
	if len(c.Args) > 0 {
		fmt.Fprintf(b, "            _values '%s' %s\n", c.Name, strings.Join(c.Args, " "))
		return
	}
	if len(c.Flags) == 0 && !c.TakesFiles {
		return
	}

	b.WriteString("            _arguments")
	for _, f := range c.Flags {
		b.WriteString(" \\\n                ")
		b.WriteString(zshFlagSpec(f))
	}
	if c.TakesFiles {
		fmt.Fprintf(b, " \\\n                '*:input:_files -g \"*.(%s)\"'",
			strings.Join(globExtensions(c.FilePattern), "|"))
	}
	b.WriteString("\n")
}

// zshFlagSpec renders one _arguments spec such as
// '(-o --output)'{-o,--output}'[desc]:dir:_files -/'.
func zshFlagSpec(f flagDef) string {
	desc := "[" + zshEscaper.Replace(f.Desc) + "]"

	var action string
	switch f.Type {
	case flagBool:
	case flagInt:
		action = ":number: "
	case flagEnum:
		action = ":" + f.Long + ":(" + strings.Join(f.Values, " ") + ")"
	case flagFile:
		action = ":file:_files -g \"*.(" + strings.Join(globExtensions(f.FileGlob), "|") + ")\""
	case flagDir:
		action = ":dir:_files -/"
	default:
		action = ":" + f.Long + ": "
	}

	if f.Short == "" {
		return "'--" + f.Long + desc + action + "'"
	}
	return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'%s%s'", f.Short, f.Long, f.Short, f.Long, desc, action)
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

var fishEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func generateFish(commands []commandDef) string {
	var b strings.Builder

	b.WriteString("# fish completion for html2latex\n\n")
	b.WriteString("function __fish_html2latex_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_html2latex_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test \"$cmd[2]\" = \"$argv[1]\"\n")
	b.WriteString("end\n\n")
	b.WriteString("complete -c html2latex -f\n")

	for _, c := range commands {
		fmt.Fprintf(&b, "complete -c html2latex -n __fish_html2latex_needs_command -a %s -d '%s'\n",
			c.Name, fishEscaper.Replace(c.Desc))
	}

	for _, c := range commands {
		cond := fmt.Sprintf("'__fish_html2latex_using_command %s'", c.Name)
		b.WriteString("\n")
		if len(c.Args) > 0 {
			fmt.Fprintf(&b, "complete -c html2latex -n %s -a '%s'\n", cond, strings.Join(c.Args, " "))
		}
		if c.TakesFiles {
			fmt.Fprintf(&b, "complete -c html2latex -n %s -F\n", cond)
		}
		for _, f := range c.Flags {
			b.WriteString("complete -c html2latex -n " + cond)
			if f.Short != "" {
				b.WriteString(" -s " + f.Short)
			}
			b.WriteString(" -l " + f.Long)
			switch f.Type {
			case flagBool:
			case flagEnum:
				fmt.Fprintf(&b, " -x -a '%s'", strings.Join(f.Values, " "))
			case flagFile:
				b.WriteString(" -r -F")
			case flagDir:
				b.WriteString(" -x -a '(__fish_complete_directories)'")
			default:
				b.WriteString(" -x")
			}
			fmt.Fprintf(&b, " -d '%s'\n", fishEscaper.Replace(f.Desc))
		}
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// PowerShell
// ---------------------------------------------------------------------------

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func psList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = psQuote(s)
	}
	return "@(" + strings.Join(quoted, ", ") + ")"
}

func generatePowerShell(commands []commandDef) string {
	var b strings.Builder

	b.WriteString("# PowerShell completion for html2latex\n\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName html2latex -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")
	b.WriteString("    $elements = @($commandAst.CommandElements | ForEach-Object { $_.ToString() })\n\n")

	b.WriteString("    $commands = [ordered]@{\n")
	for _, c := range commands {
		fmt.Fprintf(&b, "        %s = %s\n", psQuote(c.Name), psQuote(c.Desc))
	}
	b.WriteString("    }\n\n")

	b.WriteString("    $words = @{\n")
	for _, c := range commands {
		var words []string
		words = append(words, c.Args...)
		for _, f := range c.Flags {
			words = append(words, flagSpellings(f)...)
		}
		fmt.Fprintf(&b, "        %s = %s\n", psQuote(c.Name), psList(words))
	}
	b.WriteString("    }\n\n")

	b.WriteString("    $values = @{\n")
	for _, c := range commands {
		for _, f := range c.Flags {
			if f.Type != flagEnum {
				continue
			}
			for _, s := range flagSpellings(f) {
				fmt.Fprintf(&b, "        %s = %s\n", psQuote(s), psList(f.Values))
			}
		}
	}
	b.WriteString("    }\n\n")

	b.WriteString("    if ($elements.Count -lt 2 -or ($elements.Count -eq 2 -and $wordToComplete -ne '')) {\n")
	b.WriteString("        $commands.GetEnumerator() | Where-Object { $_.Key -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_.Key, $_.Key, 'ParameterValue', $_.Value)\n")
	b.WriteString("        }\n")
	b.WriteString("        return\n")
	b.WriteString("    }\n\n")

	b.WriteString("    $prev = if ($wordToComplete -eq '') { $elements[-1] } else { $elements[-2] }\n")
	b.WriteString("    if ($values.ContainsKey($prev)) {\n")
	b.WriteString("        $values[$prev] | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("        }\n")
	b.WriteString("        return\n")
	b.WriteString("    }\n\n")

	b.WriteString("    $cmd = $elements[1]\n")
	b.WriteString("    if ($words.ContainsKey($cmd)) {\n")
	b.WriteString("        $words[$cmd] | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterName', $_)\n")
	b.WriteString("        }\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")
	return b.String()
}
