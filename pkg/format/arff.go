package format

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"drebinprep/pkg/model"
)

const arffHeader = `
% 1. Title: Android Malware Samples
% 
% 2. Sources:
%      (a) Creator: Pietro Borrello
%      (b) From: DREBIN: Effective and Explainable Detection of Android Malware in Your Pocket
%      (c) Date: November, 2017
% 

@relation android_malwares

`

type arffEncoder struct {
	// classIndex is the index of the class attribute, after every feature attribute
	classIndex int
}

func attributeName(attribute string) string {
	return strings.ReplaceAll(strings.TrimSpace(attribute), `\`, `\\`)
}

func (a *arffEncoder) WriteHeader(w io.Writer, dict *model.Dictionary) error {
	var header bytes.Buffer
	header.WriteString(arffHeader)
	for _, attribute := range dict.Attributes {
		fmt.Fprintf(&header, "@ATTRIBUTE \"%s\" NUMERIC\n", attributeName(attribute))
	}
	header.WriteString("@ATTRIBUTE class {Malware,NotMalware}\n")
	header.WriteString("@DATA\n")
	a.classIndex = dict.Size()

	_, err := w.Write(header.Bytes())
	return errors.Wrap(err, "error writing arff header")
}

func (a *arffEncoder) WriteRecord(w io.Writer, r Record) error {
	var line bytes.Buffer
	line.WriteByte('{')
	it := r.Attributes.Iterator()
	for it.HasNext() {
		line.WriteString(strconv.FormatUint(uint64(it.Next()), 10))
		line.WriteString(" 1, ")
	}
	line.WriteString(strconv.Itoa(a.classIndex))
	if r.Malware {
		line.WriteString(" Malware}\n")
	} else {
		line.WriteString(" NotMalware}\n")
	}
	_, err := w.Write(line.Bytes())
	return errors.Wrapf(err, "error writing record %s", r.ID)
}
