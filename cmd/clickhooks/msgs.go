package clickhooks

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort           = "Apply click package hooks to the system and to users"
	MsgRunShort            = "Run system hooks, then user hooks for every user"
	MsgRunSystemShort      = "Sync and run every system-level hook"
	MsgRunUserShort        = "Sync user-level hooks for one user and drop apps whose frameworks are gone"
	MsgHookShort           = "Work with a single hook"
	MsgHookInstallShort    = "Link every installed app declaring the hook"
	MsgHookRemoveShort     = "Unlink every installed app declaring the hook"
	MsgHookSyncShort       = "Make the hook's links match the database"
	MsgHookShowShort       = "Show a hook's fields"
	MsgPackageShort        = "Apply hooks for one package"
	MsgPackageInstallLong  = "Apply the hooks of PACKAGE at version NEW. With --old, links of app/hook pairs the new version dropped are removed first."
	MsgPackageInstallShort = "Apply hooks after a package was installed or upgraded"
	MsgPackageRemoveShort  = "Remove the hook links of a package version"
	MsgRegisterShort       = "Register a package version for a user and apply their hooks"
	MsgUnregisterShort     = "Unregister a package for a user and remove their hook links"
	MsgFrameworkShort      = "Inspect installed frameworks"
	MsgFrameworkListShort  = "List installed frameworks and their base versions"
	MsgFrameworkValidShort = "Check a package version's framework field"
	MsgListShort           = "List hook definitions"
	MsgStatusShort         = "Show the links a hook should have and their state"
	MsgWatchShort          = "Run the maintenance pass whenever hooks, frameworks or the database change"
	MsgConfigShort         = "Print the effective configuration"
	MsgVersionShort        = "Print version information"
	MsgCompletionShort     = "Generate shell completion script"

	// Status messages
	MsgNoHooks         = "No hooks found."
	MsgNoLinks         = "Hook %s expects no links."
	MsgNoFrameworks    = "No frameworks installed in %s."
	MsgFrameworksValid = "Frameworks of %s %s are valid."
	MsgDone            = "Done."
	MsgWatching        = "Watching %d directories; press Ctrl-C to stop."
	MsgVersionLine     = "clickhooks version %s\n  commit: %s\n  built:  %s\n"
	MsgConfigSource    = "# loaded from %s"

	// Flag descriptions
	MsgFlagVerbose       = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig        = "Configuration file merged over the system and user files"
	MsgFlagOutput        = "Output format: text, json or yaml"
	MsgFlagHooksDir      = "Hook definition directory (overrides hooks.dir)"
	MsgFlagLayer         = "Database layer, deepest first; repeat for more (overrides database.layers)"
	MsgFlagUser          = "Act for this user instead of system-wide"
	MsgFlagOldVer        = "Version the package was upgraded from"
	MsgFlagRegisterUser  = "User whose registration changes"
	MsgFlagAllUsers      = "Change the registration shared by all users"
	MsgFlagIgnoreMissing = "Do not fail on frameworks that are not installed"
)

const MsgRootLong = `clickhooks keeps the links that click packages ask for in sync with the
package database. Hooks are declared in *.hook files; packages name them in
their manifests. System-level hooks apply to every unpacked package, user-level
hooks to the packages each user has registered.`

const MsgRegisterLong = `Register VERSION of PACKAGE for --user, or for every user with --all-users.
For a real user the user-level hooks of the package are applied right away;
an --all-users registration reaches each user's links on their next sync.`

const MsgCompletionLong = `To load completions:

Bash:
  $ source <(clickhooks completion bash)

Zsh:
  $ clickhooks completion zsh > "${fpath[1]}/_clickhooks"

Fish:
  $ clickhooks completion fish | source

PowerShell:
  PS> clickhooks completion powershell | Out-String | Invoke-Expression
`
