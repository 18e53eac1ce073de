// Package shell renders the snippets that hook waypoint into a shell.
package shell

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/template"
)

// Options customizes the rendered script.
type Options struct {
	Binary string // command used to invoke waypoint
	Jump   string // name of the jump function
}

func (o Options) withDefaults() Options {
	if o.Binary == "" {
		o.Binary = "waypoint"
	}
	if o.Jump == "" {
		o.Jump = "j"
	}
	return o
}

var scripts = map[string]*template.Template{
	"bash": template.Must(template.New("bash").Parse(bashScript)),
	"zsh":  template.Must(template.New("zsh").Parse(zshScript)),
	"fish": template.Must(template.New("fish").Parse(fishScript)),
}

// Supported lists the shells Write understands.
func Supported() []string {
	names := make([]string, 0, len(scripts))
	for name := range scripts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Write renders the integration script for shell to w.
func Write(w io.Writer, shell string, opts Options) error {
	tmpl, ok := scripts[strings.ToLower(shell)]
	if !ok {
		return fmt.Errorf("unsupported shell %q (want one of %s)", shell, strings.Join(Supported(), ", "))
	}
	return tmpl.Execute(w, opts.withDefaults())
}

const bashScript = `# waypoint: add to ~/.bashrc with  eval "$({{.Binary}} shell bash)"
_waypoint_hook() {
    local ret=$?
    if [ "${_WAYPOINT_LAST_PWD:-}" != "$PWD" ]; then
        _WAYPOINT_LAST_PWD=$PWD
        command {{.Binary}} add -- "$PWD" >/dev/null 2>&1
    fi
    return $ret
}
case ";${PROMPT_COMMAND:-};" in
    *";_waypoint_hook;"*) ;;
    *) PROMPT_COMMAND="_waypoint_hook${PROMPT_COMMAND:+;$PROMPT_COMMAND}" ;;
esac

{{.Jump}}() {
    local dir
    dir=$(command {{.Binary}} find -d -- "$@") && cd -- "$dir"
}
`

const zshScript = `# waypoint: add to ~/.zshrc with  eval "$({{.Binary}} shell zsh)"
autoload -Uz add-zsh-hook

_waypoint_chpwd() {
    command {{.Binary}} add -- "$PWD" >/dev/null 2>&1 &!
}

_waypoint_preexec() {
    command {{.Binary}} add -- ${(z)1} >/dev/null 2>&1 &!
}

add-zsh-hook chpwd _waypoint_chpwd
add-zsh-hook preexec _waypoint_preexec

{{.Jump}}() {
    local dir
    dir=$(command {{.Binary}} find -d -- "$@") && cd -- "$dir"
}
`

const fishScript = `# waypoint: add to ~/.config/fish/config.fish with  {{.Binary}} shell fish | source
function __waypoint_hook --on-variable PWD
    command {{.Binary}} add -- "$PWD" >/dev/null 2>&1
end

function {{.Jump}}
    set -l dir (command {{.Binary}} find -d -- $argv)
    and cd -- $dir
end
`
