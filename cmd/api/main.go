// Command athlos-api runs the Athlos REST API and its maintenance tasks.
package main

func main() {
	Execute()
}
