package main

import (
	"log"
	"net/http"
	"strings"
)

type handler struct {
	fileHandler http.Handler
}

func Handler() *handler {
	hnd := handler{
		fileHandler: http.FileServer(http.Dir("www")),
	}
	return &hnd
}

func (hnd *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Printf("%s %s", r.Method, r.RequestURI)
	if strings.HasSuffix(r.RequestURI, ".wasm") {
		w.Header().Set("Content-Type", "application/wasm")
	}
	hnd.fileHandler.ServeHTTP(w, r)
}

func main() {
	log.Println("test server listening on localhost:8008")
	err := http.ListenAndServe(":8008", Handler())
	if err != nil {
		log.Fatalln(err.Error())
	}
}
