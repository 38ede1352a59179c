// Command site builds and serves the blog and portfolio.
package main

func main() {
	execute()
}
