package config

import "fmt"

// Usage prints the command-line usage text
func Usage() {
	fmt.Println("speedtest measures achievable TCP and UDP throughput between two hosts,")
	fmt.Println("locating the server on the local network via broadcast discovery.")

	fmt.Println("\nCommon Parameters")
	fmt.Println("================================================================================")
	printFlagUsage("h", "", "Help")
	printFlagUsage("no", "", "Disable logging to file. Logging to file is enabled by default.")
	printFlagUsage("o", "<filename>", "Name of log file. By default, following file names are used:",
		"Server mode: 'speedtests.log'",
		"Client mode: 'speedtestc.log'")
	printFlagUsage("debug", "", "Enable debug information in logging output.")
	printFlagUsage("4", "", "Use only IP v4 version")
	printFlagUsage("6", "", "Use only IP v6 version")
	printFlagUsage("f", "<filename>", "Read configuration from a YAML file.",
		"Explicit flags take precedence over file values.")
	printFlagUsage("dport", "<number>", "Discovery port. Default: 15000, or $SERVER_DISCOVERY_PORT.")
	printFlagUsage("tport", "<number>", "TCP test port. Default: 16000, or $SERVER_TCP_PORT.")
	printFlagUsage("uport", "<number>", "UDP test port. Default: 17000, or $SERVER_UDP_PORT.")
	printFlagUsage("mcast", "<group>", "Use multicast discovery on the given IPv4 group instead of",
		"broadcast, for networks that filter broadcast traffic.")

	fmt.Println("\nMode: Server")
	fmt.Println("================================================================================")
	fmt.Println("In this mode, speedtest runs as a server, announcing itself to discovery")
	fmt.Println("probes and serving TCP and UDP throughput tests.")
	printFlagUsage("s", "", "Run in server mode.")
	printFlagUsage("ui", "", "Show server status in a text UI.")
	printFlagUsage("metrics", "<addr>", "Serve Prometheus metrics on <addr>, e.g. ':9090'.")

	fmt.Println("\nMode: Client")
	fmt.Println("================================================================================")
	fmt.Println("In this mode, speedtest discovers a server via broadcast and runs the")
	fmt.Println("throughput tests against it.")
	printFlagUsage("c", "<server>", "Connect to <server> directly instead of using discovery.")
	printFlagUsage("d", "<duration>", "Duration for each test (format: <num>[ms | s | m | h]).",
		"Ignored when -size is given. Default: 10s")
	printFlagUsage("size", "<bytes>", "Total bytes to transfer per protocol (format: <num>[KB | MB | GB]).",
		"0: Bound the test by duration instead. Default: 0")
	printFlagUsage("b", "<rate>", "Target send rate in bits/s (format: <num>[K | M | G]).",
		"0: Send as fast as possible. Default: 0")
	printFlagUsage("l", "<length>", "Length of the TCP write buffer and the UDP datagram payload",
		"(format: <num>[KB | MB]). Max 65493B for UDP.",
		"Default: 16KB for TCP, 1000B for UDP.")
	printFlagUsage("n", "<number>", "Number of parallel sessions per protocol. Default: 1")
	printFlagUsage("dt", "<duration>", "Discovery timeout. Default: 10s")
	printFlagUsage("dpolicy", "<policy>", "Server selection when several reply (\"first\" or \"fastest\").",
		"Default: first")
	printFlagUsage("tos", "<number>", "8-bit value for the IPv4 TOS field or IPv6 Traffic Class field.")
}

func printFlagUsage(flag, info string, helptext ...string) {
	fmt.Printf("\t-%s %s\n", flag, info)
	for _, help := range helptext {
		fmt.Printf("\t\t%s\n", help)
	}
}
