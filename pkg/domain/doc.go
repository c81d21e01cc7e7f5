/*
Package domain contains the value types shared by every scout component.

It is kept free of I/O: provider clients, the collection workflow and the tool
dispatcher all exchange these records, and adapters translate them to the wire.

# Key Entities

  - ToolRequest: a named tool invocation with its argument bag.
  - CollectionJob: the handle and status of an asynchronous dataset collection.
  - Company, JobPosting, EmailResult: normalized provider records.
*/
package domain
