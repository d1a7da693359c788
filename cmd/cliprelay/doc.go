// Command cliprelay uploads replay buffer captures to YouTube. The run
// command handles one replay-saved event end to end; watch keeps doing that
// for every new capture; upload pushes an explicit file. One-time setup
// lives under auth and config.
package main
