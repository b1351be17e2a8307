// Package commands defines the xray-contours CLI.
//
// Commands
//
//   - run <image>   Run the contour pipeline and write every stage to disk
//   - serve         Serve the pipeline as MCP tools over stdin/stdout
//   - version       Print build information
//
// # Configuration
//
// The root command loads settings before any subcommand runs: defaults,
// then a .env file, then XRAY_* environment variables, then flags. Flags
// only override values they were explicitly given. Logs always go to
// stderr so that stdout stays free for results and protocol traffic.
package commands
