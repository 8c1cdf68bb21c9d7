// Command harmonia analyzes raw PCM audio and prints the full music
// analysis result as JSON.
package main

func main() {
	Execute()
}
