package main

import "github.com/redactyl/piimask/cmd/piimask"

func main() { piimask.Execute() }
