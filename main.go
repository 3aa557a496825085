package main

import "github.com/nextlevelbuilder/climb/cmd/climb"

func main() {
	climb.Execute()
}
