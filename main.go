package main

import "github.com/vocadian/vocadian/cmd"

func main() {
	cmd.Execute()
}
