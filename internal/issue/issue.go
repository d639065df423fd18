// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	InterpreterNotFoundId Id = iota + 1
	VenvNotFoundId
	VenvInvalidId
	ManifestNotFoundId
	ManifestInvalidId
	ProvisionFailedId
	EntryPointNotFoundId
	BuildFailedId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation links shown under "See also"
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	interpreterNotFoundIssue = &Issue{
		id: InterpreterNotFoundId,
		mdMsg: `
# No Python interpreter found!

We searched PATH for a Python interpreter but couldn't find one.

## Interpreters we look for:
- Linux/macOS: ` + "`python3`, `python`" + `
- Windows: ` + "`python3`, `python`, `py`" + `

## Things you can try:
- Install Python 3 from your package manager or https://www.python.org
- Point venvoke at a specific interpreter:
~~~
$ venvoke setup --python /usr/local/bin/python3.12
~~~

- Or set it permanently in venvoke.toml:
~~~toml
python = "/usr/local/bin/python3.12"
~~~`,
		extLinks: []HttpLink{"https://www.python.org/downloads/"},
	}

	venvNotFoundIssue = &Issue{
		id: VenvNotFoundId,
		mdMsg: `
# Environment not provisioned!

The build needs a virtual environment, but the environment directory
does not exist yet.

## Things you can try:
- Provision it first:
~~~
$ venvoke setup
~~~

- If your environment lives somewhere else, point venvoke at it:
~~~
$ venvoke build --venv path/to/venv
~~~`,
	}

	venvInvalidIssue = &Issue{
		id: VenvInvalidId,
		mdMsg: `
# Environment directory is not a virtual environment!

The environment directory exists but doesn't look like a venv
(missing ` + "`pyvenv.cfg`" + ` or its interpreter).

## Things you can try:
- Recreate it from scratch:
~~~
$ venvoke setup --force
~~~

- Or remove it and provision again:
~~~
$ venvoke clean && venvoke setup
~~~`,
	}

	manifestNotFoundIssue = &Issue{
		id: ManifestNotFoundId,
		mdMsg: `
# Dependency manifest not found!

Provisioning installs packages from a requirements file, but the
manifest could not be read.

## Things you can try:
- Create a ` + "`requirements.txt`" + ` next to your project
- Or point venvoke at the manifest:
~~~
$ venvoke setup --requirements deps/requirements.txt
~~~`,
		extLinks: []HttpLink{"https://pip.pypa.io/en/stable/reference/requirements-file-format/"},
	}

	manifestInvalidIssue = &Issue{
		id: ManifestInvalidId,
		mdMsg: `
# Dependency manifest has invalid lines!

One or more lines in the requirements file are not valid requirement
declarations, so pip would reject the install.

## Things you can try:
- Check the reported line numbers for typos
- Run the preflight check for details:
~~~
$ venvoke doctor
~~~`,
		extLinks: []HttpLink{"https://pip.pypa.io/en/stable/reference/requirements-file-format/"},
	}

	provisionFailedIssue = &Issue{
		id: ProvisionFailedId,
		mdMsg: `
# Provisioning failed!

One of the provisioning steps (venv creation, pip upgrade, or package
install) exited with an error. Provisioning is fail-fast: nothing after
the failing step ran.

## Things you can try:
- Read the tool output above for the underlying cause
- Re-run with verbose output:
~~~
$ venvoke --verbose setup
~~~

- Start from a clean environment:
~~~
$ venvoke setup --force
~~~`,
	}

	entryPointNotFoundIssue = &Issue{
		id: EntryPointNotFoundId,
		mdMsg: `
# Build entry point not found!

The build delegates to an external Python script, but the configured
entry point file does not exist.

## Things you can try:
- Check the entry point path:
~~~
$ venvoke build --entry build_posts.py
~~~

- Or set it in venvoke.toml:
~~~toml
entry = "scripts/build_posts.py"
~~~`,
	}

	buildFailedIssue = &Issue{
		id: BuildFailedId,
		mdMsg: `
# Build failed!

The build entry point exited with a non-zero status. venvoke propagates
that status unchanged and does not print the completion marker.

## Things you can try:
- Read the entry point's own output above
- Re-run with verbose output to see the exact invocation:
~~~
$ venvoke --verbose build
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the venvoke configuration file.

## Configuration file locations (in order of precedence):
1. Path given via --config
2. ./venvoke.toml
3. Platform config dir (e.g. ~/.config/venvoke/venvoke.toml on Linux)

## Things you can try:
- Create a default configuration:
~~~
$ venvoke init
~~~

- Check the TOML syntax of the existing file
- Remove the config file to use defaults`,
	}

	issues = map[Id]*Issue{
		interpreterNotFoundIssue.Id(): interpreterNotFoundIssue,
		venvNotFoundIssue.Id():        venvNotFoundIssue,
		venvInvalidIssue.Id():         venvInvalidIssue,
		manifestNotFoundIssue.Id():    manifestNotFoundIssue,
		manifestInvalidIssue.Id():     manifestInvalidIssue,
		provisionFailedIssue.Id():     provisionFailedIssue,
		entryPointNotFoundIssue.Id():  entryPointNotFoundIssue,
		buildFailedIssue.Id():         buildFailedIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
