package main

import "fmt"

func main() {
	fmt.Println("main may print")
}
